// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/roomstyle/internal/metrics"
	"github.com/tomtom215/roomstyle/internal/recommend"
)

// Source supplies the product catalog.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Products returns the full catalog. Records are returned as stored;
	// validation happens when an engine is fitted.
	Products(ctx context.Context) ([]recommend.Product, error)
}

// ErrNoDocuments is returned when a documents payload has no "documents" key.
var ErrNoDocuments = errors.New("catalog: payload has no documents array")

// Document is one product record as stored in the document store.
type Document struct {
	ID          string `json:"$id"`
	ProductName string `json:"PRODUCT_NAME"`
	Category    string `json:"CATEGORY"`
	Style       string `json:"STYLE"`
	Image       string `json:"IMAGE"`
	Description string `json:"DESCRIPTION,omitempty"`
}

// DocumentList is the list response of the document store and the layout of
// legacy catalog dumps.
type DocumentList struct {
	Total     int         `json:"total"`
	Documents []*Document `json:"documents"`
}

// Product converts d, resolving its image reference through links.
func (d *Document) Product(links ImageLinker) recommend.Product {
	return recommend.Product{
		Name:        d.ProductName,
		Category:    d.Category,
		Style:       d.Style,
		ImageRef:    links.Link(d.Image),
		Description: d.Description,
	}
}

// ImageLinker builds viewable image URLs from storage file ids.
type ImageLinker struct {
	Endpoint  string
	ProjectID string
	BucketID  string
}

// Link returns ref unchanged when it is already a URL or when no bucket is
// configured; otherwise it returns the bucket view URL for the file id.
func (l ImageLinker) Link(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.Contains(ref, "://") || l.BucketID == "" || l.Endpoint == "" {
		return ref
	}

	u := fmt.Sprintf("%s/storage/buckets/%s/files/%s/view",
		strings.TrimRight(l.Endpoint, "/"), url.PathEscape(l.BucketID), url.PathEscape(ref))
	if l.ProjectID != "" {
		u += "?project=" + url.QueryEscape(l.ProjectID)
	}
	return u
}

// ParseDocuments decodes a {"documents": [...]} payload.
func ParseDocuments(r io.Reader) (*DocumentList, error) {
	var raw struct {
		Total     int          `json:"total"`
		Documents *[]*Document `json:"documents"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	if raw.Documents == nil {
		return nil, ErrNoDocuments
	}

	docs := make([]*Document, 0, len(*raw.Documents))
	for _, d := range *raw.Documents {
		if d != nil {
			docs = append(docs, d)
		}
	}
	return &DocumentList{Total: raw.Total, Documents: docs}, nil
}

// ReadDocumentsFile reads a documents file and converts every record.
func ReadDocumentsFile(path string, links ImageLinker) ([]recommend.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	list, err := ParseDocuments(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	products := make([]recommend.Product, len(list.Documents))
	for i, d := range list.Documents {
		products[i] = d.Product(links)
	}
	return products, nil
}

// FileSource reads the catalog from a JSON documents file on every call.
type FileSource struct {
	path  string
	links ImageLinker
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, links ImageLinker) *FileSource {
	return &FileSource{path: path, links: links}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file"
}

// Products implements Source.
func (s *FileSource) Products(ctx context.Context) ([]recommend.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products, err := ReadDocumentsFile(s.path, s.links)
	metrics.RecordCatalogFetch(s.Name(), err)
	return products, err
}
