// Package filesystem implements the file-handling ports: reading text uploads,
// handing out per-request scratch directories and materializing image and PDF
// uploads into them.
package filesystem
