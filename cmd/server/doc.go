// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Command roomstyle serves furniture and interior product recommendations.

	roomstyle [serve]                 run the API and trainer
	roomstyle migrate --legacy dump.json

The serve command wires:

 1. Configuration: koanf v2 with defaults, optional YAML and environment
 2. Catalog source: JSON file or remote document store, optionally
    mirrored to BadgerDB as a fallback
 3. Model store: versioned engine snapshots under storage.model_dir
 4. Trainer: restores the latest snapshot or fits one, then refits on
    recommend.training.interval
 5. HTTP API: chi router with CORS, rate limiting and Prometheus metrics

Everything runs under a suture v4 supervisor tree and shuts down on
SIGINT or SIGTERM.

Configuration is read from environment variables (see internal/config) or
a config.yaml; document store credentials have no defaults and must be
provided, for example:

	CATALOG_SOURCE=document_store
	DOCUMENT_STORE_ENDPOINT=https://cloud.example/v1
	DOCUMENT_STORE_PROJECT_ID=...
	DOCUMENT_STORE_API_KEY=...
*/
package main
