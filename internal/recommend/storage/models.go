// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FormatVersion is the on-disk format written by this package. Files with a
// different format version are rejected rather than decoded best-effort.
const FormatVersion = 2

const modelExt = ".gob.gz"

var (
	// ErrModelNotFound is returned when no file exists for a name/version.
	ErrModelNotFound = errors.New("storage: model not found")

	// ErrCorrupt is returned when a file cannot be decoded or fails its checksum.
	ErrCorrupt = errors.New("storage: model file corrupt")

	// ErrIncompatibleVersion is returned for files written in another format.
	ErrIncompatibleVersion = errors.New("storage: incompatible model format version")
)

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Name is the model name (e.g., "engine").
	Name string `json:"name"`

	// Version is the model version (monotonically increasing).
	Version int `json:"version"`

	// FormatVersion is the on-disk format the file was written with.
	FormatVersion int `json:"format_version"`

	// RunID identifies the fit that produced the model.
	RunID string `json:"run_id"`

	// Strategy is the embedding strategy name.
	Strategy string `json:"strategy"`

	// TrainedAt is when the model was fitted.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was saved.
	SavedAt time.Time `json:"saved_at"`

	// ProductCount is the catalog size.
	ProductCount int `json:"product_count"`

	// FeatureDim is the width of the feature space.
	FeatureDim int `json:"feature_dim"`

	// EmbeddingDim is the width of the embeddings.
	EmbeddingDim int `json:"embedding_dim"`

	// Checksum is the SHA-256 checksum of the uncompressed model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// TrainingDurationMS is how long the fit took.
	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// Store manages model persistence in a directory of versioned files.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// Keep track of latest version per model
	versions map[string]int
}

// NewStore creates a new model store at the given directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string]int),
	}

	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}

	return s, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.baseDir
}

// scanModels records the latest version of every model file in the directory.
func (s *Store) scanModels() error {
	all, err := s.scanVersions()
	if err != nil {
		return err
	}
	for name, versions := range all {
		s.versions[name] = versions[len(versions)-1]
	}
	return nil
}

// scanVersions returns the ascending versions on disk per model name.
func (s *Store) scanVersions() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), modelExt) {
			continue
		}

		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), modelExt))
		if name == "" {
			continue
		}
		out[name] = append(out[name], version)
	}

	for name := range out {
		sort.Ints(out[name])
	}
	return out, nil
}

// parseModelFilename extracts model name and version from a filename like "engine_v1".
func parseModelFilename(name string) (modelName string, version int) {
	idx := strings.LastIndex(name, "_v")
	if idx <= 0 {
		return "", 0
	}

	if _, err := fmt.Sscanf(name[idx+2:], "%d", &version); err != nil || version < 1 {
		return "", 0
	}
	if fmt.Sprintf("%d", version) != name[idx+2:] {
		return "", 0
	}

	return name[:idx], version
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       ModelMetadata
	CompressedData []byte
}

// Save stores data as the next version of name and returns the written
// metadata. The file is written to a temporary name and renamed into place.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, data interface{}, meta ModelMetadata) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid model name %q", name)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, fmt.Errorf("finalize compression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.versions[name] + 1

	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()
	meta.Name = name
	meta.Version = version
	meta.FormatVersion = FormatVersion

	filename := s.modelPath(name, version)
	tmp, err := os.CreateTemp(s.baseDir, name+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	sf := storedFile{
		Metadata:       meta,
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(tmp).Encode(sf); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return nil, fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return nil, fmt.Errorf("publish model file: %w", err)
	}

	s.versions[name] = version

	return &meta, nil
}

// Load decodes a model by name and version into target.
// If version is 0, loads the latest version.
func (s *Store) Load(ctx context.Context, name string, version int, target interface{}) (*ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		var ok bool
		version, ok = s.versions[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, name)
		}
	}

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, err
	}

	if sf.Metadata.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: %s v%d has format %d, this build reads %d",
			ErrIncompatibleVersion, name, version, sf.Metadata.FormatVersion, FormatVersion)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s v%d: %v", ErrCorrupt, name, version, err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("%w: read decompressed %s v%d: %v", ErrCorrupt, name, version, err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("%w: %s v%d checksum mismatch: expected %s, got %s",
			ErrCorrupt, name, version, sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("%w: decode %s v%d: %v", ErrCorrupt, name, version, err)
	}

	return &sf.Metadata, nil
}

// readFile reads the outer envelope of a model file. Caller holds the lock.
func (s *Store) readFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.modelPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: read %s v%d: %v", ErrCorrupt, name, version, err)
	}
	return &sf, nil
}

// LatestVersion returns the latest version number for a model.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	version, ok := s.versions[name]
	return version, ok
}

// List returns metadata for every stored version of name, oldest first.
// Unreadable files are skipped.
func (s *Store) List(ctx context.Context, name string) ([]ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.scanVersions()
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var models []ModelMetadata
	for _, version := range all[name] {
		sf, err := s.readFile(name, version)
		if err != nil {
			continue
		}
		models = append(models, sf.Metadata)
	}
	return models, nil
}

// Delete removes a specific model version.
func (s *Store) Delete(ctx context.Context, name string, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.modelPath(name, version)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s v%d", ErrModelNotFound, name, version)
		}
		return fmt.Errorf("delete model: %w", err)
	}

	if s.versions[name] != version {
		return nil
	}

	all, err := s.scanVersions()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	if vs := all[name]; len(vs) > 0 {
		s.versions[name] = vs[len(vs)-1]
	} else {
		delete(s.versions, name)
	}
	return nil
}

// Prune removes old model versions, keeping only the latest keepVersions.
// It returns the number of files removed.
func (s *Store) Prune(ctx context.Context, name string, keepVersions int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if keepVersions < 1 {
		keepVersions = 1
	}

	all, err := s.scanVersions()
	if err != nil {
		return 0, fmt.Errorf("read directory: %w", err)
	}

	versions := all[name]
	removed := 0
	for i := 0; i < len(versions)-keepVersions; i++ {
		if err := os.Remove(s.modelPath(name, versions[i])); err == nil {
			removed++
		}
	}
	return removed, nil
}

// modelPath returns the file path for a model.
func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, modelExt))
}
