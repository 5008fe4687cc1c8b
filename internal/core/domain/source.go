package domain

import (
	"path/filepath"
	"strings"
)

// SourceKind identifies how the content of a request is resolved.
type SourceKind string

// Available source kinds.
const (
	// SourceInlineText is text pasted into the request.
	SourceInlineText SourceKind = "inline_text"

	// SourceTextFile is an uploaded .txt file.
	SourceTextFile SourceKind = "text_file"

	// SourceImageFile is an uploaded raster image.
	SourceImageFile SourceKind = "image_file"

	// SourcePDFPages is an uploaded PDF, answered page by page.
	SourcePDFPages SourceKind = "pdf_pages"
)

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// acceptedExtensions maps lower-case extensions (without the dot) to kinds.
var acceptedExtensions = map[string]SourceKind{
	"txt":  SourceTextFile,
	"png":  SourceImageFile,
	"jpeg": SourceImageFile,
	"jpg":  SourceImageFile,
	"pdf":  SourcePDFPages,
}

// AcceptedExtensions returns the upload extensions askdoc understands,
// in the order they are offered to users.
func AcceptedExtensions() []string {
	return []string{"txt", "png", "jpeg", "jpg", "pdf"}
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Upload is a file supplied by a client.
type Upload struct {
	// Name is the client-supplied file name. Its extension selects the branch.
	Name string

	// Path is where the uploaded bytes currently live.
	Path string
}

// Ext returns the normalised extension of the client-supplied name.
func (u Upload) Ext() string {
	return NormalizeExt(filepath.Ext(u.Name))
}

// BaseName returns the last element of the client-supplied name.
func (u Upload) BaseName() string {
	name := u.Name
	if name == "" {
		name = u.Path
	}
	// Browsers on Windows may send a full path.
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == ".." || base == "/" {
		return "upload"
	}
	return base
}

// ClassifyUpload returns the source kind for an upload.
// Returns ErrUnsupportedType when the extension is not accepted.
func ClassifyUpload(u Upload) (SourceKind, error) {
	kind, ok := acceptedExtensions[u.Ext()]
	if !ok {
		return "", ErrUnsupportedType
	}
	return kind, nil
}
