// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/tomtom215/roomstyle/internal/recommend/embedding"
	"github.com/tomtom215/roomstyle/internal/recommend/features"
	"github.com/tomtom215/roomstyle/internal/recommend/similarity"
)

// Engine is a fitted recommender. It is immutable after Fit or Restore and
// safe for concurrent use. A new catalog means a new Engine published
// through a Holder.
type Engine struct {
	config *Config
	logger zerolog.Logger

	runID    string
	fittedAt time.Time

	catalog    []Product
	space      *features.Space
	strategy   embedding.Strategy
	features   [][]float64
	embeddings [][]float64

	index     *catalogIndex
	styleVecs map[string][]float64
}

// Fit validates catalog, fits the feature space and the embedding strategy,
// and caches the catalog embeddings.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Fit(ctx context.Context, catalog []Product, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}

	snapshot := append([]Product(nil), catalog...)
	logger = logger.With().Str("component", "recommend").Logger()
	start := time.Now()

	space, X, err := features.Fit(toRecords(snapshot))
	if err != nil {
		return nil, fmt.Errorf("fit features: %w", err)
	}

	strategy, err := embedding.New(cfg.strategyConfig())
	if err != nil {
		return nil, err
	}
	if err := strategy.Fit(ctx, X); err != nil {
		return nil, fmt.Errorf("fit %s embedding: %w", strategy.Name(), err)
	}

	emb, err := strategy.Encode(X)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	e := newEngine(cfg, logger, snapshot, space, strategy, X, emb)
	e.runID = uuid.NewString()
	e.fittedAt = time.Now()

	e.logger.Info().
		Str("run_id", e.runID).
		Str("strategy", strategy.Name()).
		Int("products", len(snapshot)).
		Int("feature_dim", space.Dim()).
		Int("embedding_dim", strategy.Dim()).
		Dur("duration", time.Since(start)).
		Msg("engine fitted")

	return e, nil
}

//nolint:gocritic // X follows linear algebra notation
func newEngine(cfg *Config, logger zerolog.Logger, catalog []Product, space *features.Space,
	strategy embedding.Strategy, X, emb [][]float64) *Engine {
	e := &Engine{
		config:     cfg.Clone(),
		logger:     logger,
		catalog:    catalog,
		space:      space,
		strategy:   strategy,
		features:   X,
		embeddings: emb,
		index:      buildIndex(catalog),
	}

	// Style vectors for the partial tier, one per distinct style.
	styles := e.index.styles
	vecs := space.TextVectors(styles)
	e.styleVecs = make(map[string][]float64, len(styles))
	for i, s := range styles {
		e.styleVecs[s] = vecs[i]
	}

	return e
}

// ValidateCatalog fails on the first record missing a required field or
// repeating an earlier name. Fit applies the same check.
func ValidateCatalog(catalog []Product) error {
	if len(catalog) == 0 {
		return ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(catalog))
	for i := range catalog {
		if err := catalog[i].Validate(i); err != nil {
			return err
		}
		if _, dup := seen[catalog[i].Name]; dup {
			return &MalformedRecordError{Index: i, Name: catalog[i].Name, Field: "name", Duplicate: true}
		}
		seen[catalog[i].Name] = struct{}{}
	}
	return nil
}

func toRecords(catalog []Product) []features.Record {
	return lo.Map(catalog, func(p Product, _ int) features.Record {
		return features.Record{Category: p.Category, Style: p.Style, Name: p.Name}
	})
}

// fitted reports whether e can serve queries.
func (e *Engine) fitted() bool {
	return e != nil && e.space != nil && e.strategy != nil && e.index != nil
}

// Recommend runs the tiered cascade for q.
//
// A flooring value that names a catalog product pins it with full
// confidence. When flooring is set, every other Flooring product is dropped
// from the candidates. The exact tier is tried first, then the partial tier,
// then the embedding fallback; the first non-empty tier is merged with the
// pin, deduplicated by name, sorted by confidence and truncated to TopN.
//
//nolint:gocritic // hugeParam: Query is passed by value for immutability
func (e *Engine) Recommend(q Query) ([]Recommendation, error) {
	if !e.fitted() {
		return nil, ErrNotFitted
	}

	topN := e.config.resolveTopN(q.TopN)

	var out []Recommendation
	pinned := -1
	if q.Flooring != "" {
		if i, ok := e.index.byName[q.Flooring]; ok {
			pinned = i
			out = append(out, e.recommendation(i, 1, TierFlooring))
		}
	}

	eligible := func(i int) bool {
		if q.Flooring == "" {
			return true
		}
		return e.catalog[i].Category != FlooringCategory || i == pinned
	}

	tier := e.exactTier(q, eligible)
	if len(tier) == 0 {
		tier = e.partialTier(q, eligible)
	}
	if len(tier) == 0 {
		var err error
		tier, err = e.embeddingTier(q, eligible, topN)
		if err != nil {
			return nil, err
		}
	}

	result := mergeRecommendations(append(out, tier...), topN)

	e.logger.Debug().
		Str("category", q.Category).
		Str("style", q.Style).
		Bool("pinned", pinned >= 0).
		Int("results", len(result)).
		Msg("recommendation complete")

	return result, nil
}

// exactTier returns every eligible product matching category and style.
//
//nolint:gocritic // hugeParam: Query is passed by value for immutability
func (e *Engine) exactTier(q Query, eligible func(int) bool) []Recommendation {
	ids := filter(e.index.byPair[pairKey{category: q.Category, style: q.Style}], eligible)

	out := make([]Recommendation, 0, len(ids))
	for _, i := range ids {
		out = append(out, e.recommendation(i, 1, TierExact))
	}
	return out
}

// partialTier ranks eligible products of the category by the text
// similarity of their style to the query style.
//
//nolint:gocritic // hugeParam: Query is passed by value for immutability
func (e *Engine) partialTier(q Query, eligible func(int) bool) []Recommendation {
	ids := filter(e.index.byCategory[q.Category], eligible)
	if len(ids) == 0 {
		return nil
	}

	query := e.space.TextVectors([]string{q.Style})[0]

	out := make([]Recommendation, 0, len(ids))
	for _, i := range ids {
		sim := similarity.Cosine(query, e.styleVecs[e.catalog[i].Style])
		out = append(out, e.recommendation(i, sim, TierPartial))
	}
	sortByConfidence(out)
	return out
}

// embeddingTier embeds a synthetic query record and returns the topN
// eligible products closest to it.
//
//nolint:gocritic // hugeParam: Query is passed by value for immutability
func (e *Engine) embeddingTier(q Query, eligible func(int) bool, topN int) ([]Recommendation, error) {
	X := e.space.Transform([]features.Record{{Category: q.Category, Style: q.Style}})
	encoded, err := e.strategy.Encode(X)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	query := encoded[0]

	ids := make([]int, 0, len(e.catalog))
	candidates := make([][]float64, 0, len(e.catalog))
	for i := range e.catalog {
		if eligible(i) {
			ids = append(ids, i)
			candidates = append(candidates, e.embeddings[i])
		}
	}

	scores := similarity.Matrix([][]float64{query}, candidates)[0]

	top := similarity.TopN(scores, topN)
	out := make([]Recommendation, 0, len(top))
	for _, k := range top {
		out = append(out, e.recommendation(ids[k], scores[k], TierEmbedding))
	}
	return out, nil
}

// recommendation scales a similarity in [0, 1] to the tier's ceiling.
func (e *Engine) recommendation(i int, sim float64, tier Tier) Recommendation {
	return Recommendation{
		Product:    e.catalog[i],
		Confidence: roundScore(clampUnit(sim) * tier.Ceiling()),
		Tier:       tier,
	}
}

// clampUnit maps a cosine similarity into [0, 1].
func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// sortByConfidence sorts descending, keeping input order on ties.
func sortByConfidence(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
}

// mergeRecommendations drops repeated names (first occurrence wins), sorts
// by confidence and truncates to topN.
func mergeRecommendations(recs []Recommendation, topN int) []Recommendation {
	out := lo.UniqBy(recs, func(r Recommendation) string { return r.Name })

	sortByConfidence(out)
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// Categories returns the sorted distinct categories.
func (e *Engine) Categories() ([]string, error) {
	if !e.fitted() {
		return nil, ErrNotFitted
	}
	return append([]string(nil), e.index.categories...), nil
}

// Styles returns the sorted distinct styles.
func (e *Engine) Styles() ([]string, error) {
	if !e.fitted() {
		return nil, ErrNotFitted
	}
	return append([]string(nil), e.index.styles...), nil
}

// FlooringOptions returns the sorted names of Flooring products.
func (e *Engine) FlooringOptions() ([]string, error) {
	if !e.fitted() {
		return nil, ErrNotFitted
	}
	return append([]string(nil), e.index.flooring...), nil
}

// Info describes a fitted engine.
type Info struct {
	RunID        string    `json:"run_id"`
	FittedAt     time.Time `json:"fitted_at"`
	Strategy     string    `json:"strategy"`
	Products     int       `json:"products"`
	FeatureDim   int       `json:"feature_dim"`
	EmbeddingDim int       `json:"embedding_dim"`
}

// Info returns a summary of the fitted state.
func (e *Engine) Info() (Info, error) {
	if !e.fitted() {
		return Info{}, ErrNotFitted
	}
	return Info{
		RunID:        e.runID,
		FittedAt:     e.fittedAt,
		Strategy:     e.strategy.Name(),
		Products:     len(e.catalog),
		FeatureDim:   e.space.Dim(),
		EmbeddingDim: e.strategy.Dim(),
	}, nil
}
