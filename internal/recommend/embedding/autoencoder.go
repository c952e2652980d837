// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

package embedding

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// AutoencoderConfig contains configuration for the autoencoder strategy.
type AutoencoderConfig struct {
	// HiddenDim is the width of the hidden layer on both sides.
	// Default: 128.
	HiddenDim int `json:"hidden_dim" koanf:"hidden_dim"`

	// EmbeddingDim is the bottleneck width.
	// Default: 64.
	EmbeddingDim int `json:"embedding_dim" koanf:"embedding_dim"`

	// Dropout is the training-time drop probability after each hidden layer.
	// Zero disables dropout; values outside [0, 1) fall back to 0.2.
	Dropout float64 `json:"dropout" koanf:"dropout"`

	// LearningRate is the Adam step size.
	// Default: 0.001.
	LearningRate float64 `json:"learning_rate" koanf:"learning_rate"`

	// Epochs is the number of passes over the training rows.
	// Default: 50.
	Epochs int `json:"epochs" koanf:"epochs"`

	// BatchSize is the mini-batch size.
	// Default: 32.
	BatchSize int `json:"batch_size" koanf:"batch_size"`

	// ValidationSplit is the fraction of trailing rows held out for
	// monitoring. It does not influence the fitted weights.
	// Default: 0.2.
	ValidationSplit float64 `json:"validation_split" koanf:"validation_split"`

	// Seed drives weight initialization, shuffling and dropout masks.
	// Default: 42.
	Seed int64 `json:"seed" koanf:"seed"`
}

// DefaultAutoencoderConfig returns default autoencoder configuration.
func DefaultAutoencoderConfig() AutoencoderConfig {
	return AutoencoderConfig{
		HiddenDim:       128,
		EmbeddingDim:    64,
		Dropout:         0.2,
		LearningRate:    0.001,
		Epochs:          50,
		BatchSize:       32,
		ValidationSplit: 0.2,
		Seed:            42,
	}
}

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-7
)

// History records per-epoch losses of the last Fit.
type History struct {
	TrainLoss      []float64
	ValidationLoss []float64
}

// Autoencoder is a feed-forward reconstruction network:
//
//	input -> hidden (relu, dropout) -> embedding (relu)
//	      -> hidden (relu, dropout) -> input (linear)
//
// It is trained to minimize the mean squared reconstruction error. Encode
// runs only the first two layers and never applies dropout.
type Autoencoder struct {
	baseStrategy
	config AutoencoderConfig

	inputDim int
	enc1     *dense
	enc2     *dense
	dec1     *dense
	dec2     *dense

	history History
}

// NewAutoencoder creates an unfitted autoencoder with the given configuration.
func NewAutoencoder(cfg AutoencoderConfig) *Autoencoder {
	def := DefaultAutoencoderConfig()
	if cfg.HiddenDim <= 0 {
		cfg.HiddenDim = def.HiddenDim
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = def.EmbeddingDim
	}
	if cfg.Dropout < 0 || cfg.Dropout >= 1 {
		cfg.Dropout = def.Dropout
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = def.LearningRate
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = def.Epochs
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.ValidationSplit < 0 || cfg.ValidationSplit >= 1 {
		cfg.ValidationSplit = def.ValidationSplit
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}

	return &Autoencoder{
		baseStrategy: baseStrategy{name: NameAutoencoder},
		config:       cfg,
	}
}

// Dim returns the embedding width.
func (a *Autoencoder) Dim() int {
	return a.config.EmbeddingDim
}

// History returns the losses recorded by the last Fit.
func (a *Autoencoder) History() History {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return History{
		TrainLoss:      append([]float64(nil), a.history.TrainLoss...),
		ValidationLoss: append([]float64(nil), a.history.ValidationLoss...),
	}
}

// Fit trains the network on X with X as its own target.
//
//nolint:gocritic // X follows linear algebra notation
func (a *Autoencoder) Fit(ctx context.Context, X [][]float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(X) == 0 || len(X[0]) == 0 {
		return errors.New("embedding: autoencoder needs a non-empty feature matrix")
	}
	if err := checkInput(X, len(X[0])); err != nil {
		return err
	}

	cfg := a.config
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic init, not security sensitive

	a.inputDim = len(X[0])
	a.enc1 = newDense(a.inputDim, cfg.HiddenDim, rng)
	a.enc2 = newDense(cfg.HiddenDim, cfg.EmbeddingDim, rng)
	a.dec1 = newDense(cfg.EmbeddingDim, cfg.HiddenDim, rng)
	a.dec2 = newDense(cfg.HiddenDim, a.inputDim, rng)
	a.history = History{}

	train, val := splitValidation(X, cfg.ValidationSplit)

	order := make([]int, len(train))
	for i := range order {
		order[i] = i
	}

	step := 0
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		if contextCancelled(ctx) {
			return ctx.Err()
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var epochLoss float64
		for start := 0; start < len(order); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(order) {
				end = len(order)
			}

			batch := make([][]float64, 0, end-start)
			for _, idx := range order[start:end] {
				batch = append(batch, train[idx])
			}

			step++
			epochLoss += a.trainBatch(batch, rng, step) * float64(len(batch))
		}

		a.history.TrainLoss = append(a.history.TrainLoss, epochLoss/float64(len(train)))
		if len(val) > 0 {
			a.history.ValidationLoss = append(a.history.ValidationLoss, a.reconstructionLoss(val))
		}
	}

	a.markFitted()
	return nil
}

// splitValidation holds out the trailing fraction of rows.
// At least one row always stays in the training set.
func splitValidation(X [][]float64, fraction float64) (train, val [][]float64) { //nolint:gocritic // X follows linear algebra notation
	nVal := int(float64(len(X)) * fraction)
	if nVal >= len(X) {
		nVal = len(X) - 1
	}
	cut := len(X) - nVal
	return X[:cut], X[cut:]
}

// layerGrads accumulates gradients for one dense layer.
type layerGrads struct {
	w [][]float64
	b []float64
}

func newLayerGrads(d *dense) *layerGrads {
	g := &layerGrads{
		w: make([][]float64, len(d.W)),
		b: make([]float64, len(d.B)),
	}
	for o := range g.w {
		g.w[o] = make([]float64, len(d.W[o]))
	}
	return g
}

// trainBatch runs forward and backward passes over batch, applies one Adam
// step and returns the batch mean squared error.
func (a *Autoencoder) trainBatch(batch [][]float64, rng *rand.Rand, step int) float64 {
	g1, g2 := newLayerGrads(a.enc1), newLayerGrads(a.enc2)
	g3, g4 := newLayerGrads(a.dec1), newLayerGrads(a.dec2)

	scale := 2.0 / float64(len(batch)*a.inputDim)
	var loss float64

	for _, x := range batch {
		h1 := relu(a.enc1.forward(x))
		m1 := dropoutMask(len(h1), a.config.Dropout, rng)
		h1d := applyMask(h1, m1)

		z := relu(a.enc2.forward(h1d))

		h2 := relu(a.dec1.forward(z))
		m2 := dropoutMask(len(h2), a.config.Dropout, rng)
		h2d := applyMask(h2, m2)

		y := a.dec2.forward(h2d)

		dy := make([]float64, len(y))
		for i := range y {
			diff := y[i] - x[i]
			loss += diff * diff
			dy[i] = scale * diff
		}

		dh2 := a.dec2.backward(dy, h2d, g4)
		for i := range dh2 {
			if h2[i] <= 0 {
				dh2[i] = 0
			} else {
				dh2[i] *= m2[i]
			}
		}

		dz := a.dec1.backward(dh2, z, g3)
		for i := range dz {
			if z[i] <= 0 {
				dz[i] = 0
			}
		}

		dh1 := a.enc2.backward(dz, h1d, g2)
		for i := range dh1 {
			if h1[i] <= 0 {
				dh1[i] = 0
			} else {
				dh1[i] *= m1[i]
			}
		}

		a.enc1.backward(dh1, x, g1)
	}

	lr := a.config.LearningRate
	a.enc1.adamStep(g1, lr, step)
	a.enc2.adamStep(g2, lr, step)
	a.dec1.adamStep(g3, lr, step)
	a.dec2.adamStep(g4, lr, step)

	return loss / float64(len(batch)*a.inputDim)
}

// reconstructionLoss is the deterministic MSE over rows. Caller holds the lock.
func (a *Autoencoder) reconstructionLoss(rows [][]float64) float64 {
	var loss float64
	for _, x := range rows {
		z := a.encodeRow(x)
		y := a.dec2.forward(relu(a.dec1.forward(z)))
		for i := range y {
			d := y[i] - x[i]
			loss += d * d
		}
	}
	return loss / float64(len(rows)*a.inputDim)
}

// encodeRow runs the encoder half without dropout. Caller holds the lock.
func (a *Autoencoder) encodeRow(x []float64) []float64 {
	return relu(a.enc2.forward(relu(a.enc1.forward(x))))
}

// Encode embeds each row of X.
//
//nolint:gocritic // X follows linear algebra notation
func (a *Autoencoder) Encode(X [][]float64) ([][]float64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.fitted {
		return nil, ErrNotFitted
	}
	if err := checkInput(X, a.inputDim); err != nil {
		return nil, err
	}

	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = a.encodeRow(x)
	}
	return out, nil
}

// autoencoderState is the gob payload of MarshalState.
type autoencoderState struct {
	Config   AutoencoderConfig
	InputDim int
	Layers   []denseState
}

type denseState struct {
	W [][]float64
	B []float64
}

// MarshalState serializes the configuration and all four layers.
// The decoder is kept so a restored model reproduces the saved one exactly.
func (a *Autoencoder) MarshalState() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.fitted {
		return nil, ErrNotFitted
	}

	st := autoencoderState{
		Config:   a.config,
		InputDim: a.inputDim,
	}
	for _, d := range []*dense{a.enc1, a.enc2, a.dec1, a.dec2} {
		st.Layers = append(st.Layers, denseState{W: d.W, B: d.B})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, fmt.Errorf("encode autoencoder state: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalState restores a model written by MarshalState.
func (a *Autoencoder) UnmarshalState(data []byte) error {
	var st autoencoderState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return fmt.Errorf("decode autoencoder state: %w", err)
	}
	if len(st.Layers) != 4 {
		return fmt.Errorf("decode autoencoder state: %d layers, want 4", len(st.Layers))
	}

	want := [][2]int{
		{st.InputDim, st.Config.HiddenDim},
		{st.Config.HiddenDim, st.Config.EmbeddingDim},
		{st.Config.EmbeddingDim, st.Config.HiddenDim},
		{st.Config.HiddenDim, st.InputDim},
	}
	layers := make([]*dense, 4)
	for i, ls := range st.Layers {
		if len(ls.W) != want[i][1] || len(ls.B) != want[i][1] {
			return fmt.Errorf("decode autoencoder state: layer %d has %d outputs, want %d", i, len(ls.W), want[i][1])
		}
		for _, row := range ls.W {
			if len(row) != want[i][0] {
				return fmt.Errorf("decode autoencoder state: layer %d has %d inputs, want %d", i, len(row), want[i][0])
			}
		}
		layers[i] = &dense{W: ls.W, B: ls.B}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.config = st.Config
	a.inputDim = st.InputDim
	a.enc1, a.enc2, a.dec1, a.dec2 = layers[0], layers[1], layers[2], layers[3]
	a.history = History{}
	a.markFitted()
	return nil
}

// dense is a fully connected layer y = W x + b with Adam moment buffers.
type dense struct {
	W [][]float64 // out x in
	B []float64

	mW, vW [][]float64
	mB, vB []float64
}

// newDense initializes weights with Glorot uniform and zero biases.
func newDense(in, out int, rng *rand.Rand) *dense {
	limit := math.Sqrt(6.0 / float64(in+out))
	d := &dense{
		W: make([][]float64, out),
		B: make([]float64, out),
	}
	for o := range d.W {
		d.W[o] = make([]float64, in)
		for i := range d.W[o] {
			d.W[o][i] = (rng.Float64()*2 - 1) * limit
		}
	}
	return d
}

func (d *dense) forward(x []float64) []float64 {
	out := make([]float64, len(d.W))
	for o, w := range d.W {
		sum := d.B[o]
		for i, xi := range x {
			sum += w[i] * xi
		}
		out[o] = sum
	}
	return out
}

// backward accumulates gradients for upstream delta dy given the layer
// input x, and returns the delta with respect to x.
func (d *dense) backward(dy, x []float64, g *layerGrads) []float64 {
	dx := make([]float64, len(x))
	for o, w := range d.W {
		delta := dy[o]
		if delta == 0 {
			continue
		}
		g.b[o] += delta
		gw := g.w[o]
		for i, xi := range x {
			gw[i] += delta * xi
			dx[i] += delta * w[i]
		}
	}
	return dx
}

func (d *dense) adamStep(g *layerGrads, lr float64, step int) {
	if d.mW == nil {
		d.mW, d.vW = zerosLike(d.W), zerosLike(d.W)
		d.mB, d.vB = make([]float64, len(d.B)), make([]float64, len(d.B))
	}

	c1 := 1 - math.Pow(adamBeta1, float64(step))
	c2 := 1 - math.Pow(adamBeta2, float64(step))

	update := func(p, m, v *float64, grad float64) {
		*m = adamBeta1*(*m) + (1-adamBeta1)*grad
		*v = adamBeta2*(*v) + (1-adamBeta2)*grad*grad
		*p -= lr * (*m / c1) / (math.Sqrt(*v/c2) + adamEpsilon)
	}

	for o := range d.W {
		for i := range d.W[o] {
			update(&d.W[o][i], &d.mW[o][i], &d.vW[o][i], g.w[o][i])
		}
		update(&d.B[o], &d.mB[o], &d.vB[o], g.b[o])
	}
}

func zerosLike(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = make([]float64, len(m[i]))
	}
	return out
}

func relu(x []float64) []float64 {
	for i, v := range x {
		if v < 0 {
			x[i] = 0
		}
	}
	return x
}

// dropoutMask returns inverted-dropout multipliers: 0 for dropped units and
// 1/(1-p) for kept ones.
func dropoutMask(n int, p float64, rng *rand.Rand) []float64 {
	mask := make([]float64, n)
	keep := 1 / (1 - p)
	for i := range mask {
		if p == 0 || rng.Float64() >= p {
			mask[i] = keep
		}
	}
	return mask
}

func applyMask(x, mask []float64) []float64 {
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * mask[i]
	}
	return out
}
