// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package config

import (
	"fmt"

	"github.com/tomtom215/roomstyle/internal/validation"
)

// Validate checks field constraints, then the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	return c.validateSecurity()
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.File == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case SourceDocumentStore:
		return c.validateDocumentStore()
	}
	return nil
}

func (c *Config) validateDocumentStore() error {
	ds := c.Catalog.DocumentStore

	if ds.Endpoint == "" {
		return fmt.Errorf("DOCUMENT_STORE_ENDPOINT is required when CATALOG_SOURCE=document_store")
	}
	if err := validateEndpointURL(ds.Endpoint, "DOCUMENT_STORE_ENDPOINT"); err != nil {
		return err
	}

	required := []struct {
		value, name string
	}{
		{ds.ProjectID, "DOCUMENT_STORE_PROJECT_ID"},
		{ds.APIKey, "DOCUMENT_STORE_API_KEY"},
		{ds.DatabaseID, "DOCUMENT_STORE_DATABASE_ID"},
		{ds.CollectionID, "DOCUMENT_STORE_COLLECTION_ID"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required when CATALOG_SOURCE=document_store", r.name)
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive unless DISABLE_RATE_LIMIT=true")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
		}
	}
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return nil
}
