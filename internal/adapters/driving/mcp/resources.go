package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for askdoc resources.
	uriScheme = "askdoc://"

	// redacted replaces API keys in the settings resource.
	redacted = "********"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "formats",
		Name:        "formats",
		Description: "Accepted upload extensions and how each is answered",
		MIMEType:    "application/json",
	}, s.handleFormatsResource)

	if s.ports.Settings != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "settings",
			Name:        "settings",
			Description: "Active QA providers and models (API keys redacted)",
			MIMEType:    "application/json",
		}, s.handleSettingsResource)
	}
}

type formatInfo struct {
	Extension string            `json:"extension"`
	Source    domain.SourceKind `json:"source"`
}

// handleFormatsResource lists accepted extensions.
func (s *Server) handleFormatsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	exts := domain.AcceptedExtensions()
	infos := make([]formatInfo, 0, len(exts))
	for _, ext := range exts {
		kind, err := domain.ClassifyUpload(domain.Upload{Name: "file." + ext})
		if err != nil {
			continue
		}
		infos = append(infos, formatInfo{Extension: ext, Source: kind})
	}
	return jsonResult(req.Params.URI, infos)
}

type capabilityInfo struct {
	Provider domain.AIProvider `json:"provider"`
	Model    string            `json:"model"`
	BaseURL  string            `json:"base_url,omitempty"`
	APIKey   string            `json:"api_key,omitempty"`
}

type settingsInfo struct {
	TextQA        capabilityInfo          `json:"text_qa"`
	DocumentQA    capabilityInfo          `json:"document_qa"`
	OCREngine     domain.OCREngine        `json:"ocr_engine"`
	Rasterizer    domain.RasterEngine     `json:"rasterizer"`
	FailurePolicy domain.PDFFailurePolicy `json:"pdf_failure_policy"`
}

// handleSettingsResource returns the active settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return jsonResult(req.Params.URI, settingsInfo{
		TextQA:        capability(settings.TextQA),
		DocumentQA:    capability(settings.DocumentQA),
		OCREngine:     settings.OCR.Engine,
		Rasterizer:    settings.Rasterizer.Engine,
		FailurePolicy: settings.PDF.FailurePolicy,
	})
}

func capability(c domain.CapabilitySettings) capabilityInfo {
	info := capabilityInfo{Provider: c.Provider, Model: c.Model, BaseURL: c.BaseURL}
	if c.APIKey != "" {
		info.APIKey = redacted
	}
	return info
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
