package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

//go:embed static/*
var content embed.FS

// header is the Markdown shown above the form.
const header = `# QnA System

This App answers a question based on text content or uploaded file (txt, png, jpeg, pdf).
`

type indexData struct {
	Header template.HTML
	Accept string
}

// renderIndex renders index.html once with the Markdown header.
func renderIndex() ([]byte, error) {
	var md bytes.Buffer
	if err := goldmark.Convert([]byte(header), &md); err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(content, "static/index.html")
	if err != nil {
		return nil, err
	}

	exts := domain.AcceptedExtensions()
	accept := make([]string, len(exts))
	for i, ext := range exts {
		accept[i] = "." + ext
	}

	var out bytes.Buffer
	err = tmpl.Execute(&out, indexData{
		Header: template.HTML(md.String()), //nolint:gosec // rendered from a constant
		Accept: strings.Join(accept, ","),
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// staticHandler serves the embedded assets under /static/.
func staticHandler() http.Handler {
	fsys, err := fs.Sub(content, "static")
	if err != nil {
		panic(err) // embed paths are fixed at build time
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))
}
