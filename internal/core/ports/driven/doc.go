// Package driven declares what the core needs from the outside world.
//
// Always wired:
//
//   - TextQA: answer span from a question and a context string
//   - ContentLoader: decoding of uploaded .txt files
//   - ScratchSpace: per-request working directories
//   - Materializer: copy an upload into scratch, rasterizing PDFs
//   - ConfigStore: dot-keyed settings
//
// May be nil. Image and PDF uploads then fail with a configuration message:
//
//   - DocumentQA: answers about one page image
//   - Rasterizer: PDF pages to PNG, used by Materializer
//   - OCREngine: image to text, used by the local document QA provider
//
// This package imports domain and nothing else from the module.
package driven
