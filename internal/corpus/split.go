// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pdiddy/tourism-qa/pkg/types"
)

// Defaults applied when SplitConfig fields are zero.
const (
	DefaultTestSize = 0.2
	DefaultValSize  = 0.1
	DefaultSeed     = 42
)

// ErrSplitSizes is returned when the held-out fractions leave no training
// data.
var ErrSplitSizes = errors.New("invalid split sizes")

// Splits holds the three partitions of a corpus.
type Splits struct {
	Train []types.QAPair
	Val   []types.QAPair
	Test  []types.QAPair
}

// Total returns the number of pairs across all partitions.
func (s Splits) Total() int {
	return len(s.Train) + len(s.Val) + len(s.Test)
}

func splitDefaults(cfg types.SplitConfig) types.SplitConfig {
	if cfg.TestSize == 0 {
		cfg.TestSize = DefaultTestSize
	}
	if cfg.ValSize == 0 {
		cfg.ValSize = DefaultValSize
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	return cfg
}

// Split shuffles pairs with a seeded generator and partitions them. The
// held-out share is ceil(n × (test+val)); the test share of it is
// ceil(held × test/(test+val)) and the rest is validation. The input slice
// is not modified. The same seed and input always give the same splits.
func Split(pairs []types.QAPair, cfg types.SplitConfig) (Splits, error) {
	cfg = splitDefaults(cfg)
	held := cfg.TestSize + cfg.ValSize
	if cfg.TestSize < 0 || cfg.ValSize < 0 || held >= 1 {
		return Splits{}, fmt.Errorf("%w: test %.2f, val %.2f", ErrSplitSizes, cfg.TestSize, cfg.ValSize)
	}

	n := len(pairs)
	nHeld := ceil(float64(n) * held)
	nTest := ceil(float64(nHeld) * cfg.TestSize / held)
	nVal := nHeld - nTest
	nTrain := n - nHeld
	if n > 0 && nTrain < 1 {
		return Splits{}, fmt.Errorf("%w: %d pairs leave no training data", ErrSplitSizes, n)
	}

	shuffled := append([]types.QAPair(nil), pairs...)
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return Splits{
		Train: shuffled[:nTrain],
		Val:   shuffled[nTrain : nTrain+nVal],
		Test:  shuffled[nTrain+nVal:],
	}, nil
}

// ceil rounds up, ignoring floating-point noise such as 10 × 0.30000000000000004.
func ceil(x float64) int {
	return int(math.Ceil(x - 1e-9))
}
