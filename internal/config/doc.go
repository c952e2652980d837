// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Package config loads application configuration with koanf v2.

Sources are layered, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. YAML file from CONFIG_PATH, else config.yaml / config.yml in the working
    directory, else /etc/roomstyle/config.yaml
 3. Environment variables

Only variables listed in the env mapping are read; everything else in the
environment is ignored.

# Environment Variables

Server:
  - HTTP_PORT, HTTP_HOST, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT

Logging:
  - LOG_LEVEL, LOG_FORMAT (json, console), LOG_CALLER

Recommendation engine:
  - RECOMMEND_STRATEGY (autoencoder, factorization)
  - RECOMMEND_TOP_N, RECOMMEND_MAX_TOP_N
  - RECOMMEND_TRAIN_INTERVAL (0 disables scheduled refits), RECOMMEND_TRAIN_TIMEOUT
  - RECOMMEND_RETAIN_VERSIONS
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_SIZE
  - RECOMMEND_SEED

Catalog:
  - CATALOG_SOURCE (file, document_store), CATALOG_FILE, CATALOG_MIRROR_PATH
  - CATALOG_WATCH, CATALOG_WATCH_DEBOUNCE (refit when the catalog file changes)
  - DOCUMENT_STORE_ENDPOINT, DOCUMENT_STORE_PROJECT_ID, DOCUMENT_STORE_API_KEY
  - DOCUMENT_STORE_DATABASE_ID, DOCUMENT_STORE_COLLECTION_ID, DOCUMENT_STORE_BUCKET_ID
  - DOCUMENT_STORE_PAGE_SIZE, DOCUMENT_STORE_RPS, DOCUMENT_STORE_TIMEOUT

Storage:
  - MODEL_DIR

Security:
  - CORS_ORIGINS (comma separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW,
    DISABLE_RATE_LIMIT, ADMIN_TOKEN

Document-store credentials have no defaults. They must come from the file or
the environment.

# Validation

Load rejects the configuration when a validate tag fails (field names are
reported by koanf path, e.g. "server.port") or a cross-field rule fails, such
as a document-store source without credentials.
*/
package config
