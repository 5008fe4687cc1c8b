// Package cgo groups the native bindings. Each sub-package has a stub built
// when cgo or the native library is unavailable, so the rest of the module
// compiles without a C toolchain.
//
//   - tesseract: OCR via gosseract, built with the "tesseract" tag
package cgo
