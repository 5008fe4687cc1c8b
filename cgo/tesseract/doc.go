// Package tesseract provides in-process OCR through libtesseract.
// It implements the driven.OCREngine interface.
//
// Build requires:
//   - libtesseract and libleptonica headers
//   - the "tesseract" build tag, e.g. go build -tags tesseract
//
// Without the tag the package compiles to a stub whose Recognize
// returns domain.ErrNotImplemented.
package tesseract
