package config

import (
	"strconv"
	"strings"

	"stochproc/linalg"
	"stochproc/numeric"
)

// parseCompositeKey splits a composite key like "0,1" into its integer
// coordinates.
func parseCompositeKey(key string) ([]int, error) {
	parts := strings.Split(key, ",")
	coords := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, newConfigError("invalid composite key %q: %v", key, err)
		}
		coords[i] = v
	}
	return coords, nil
}

// keyIndex folds a composite key into a single mixed-radix state index
// against dims. The key's arity must equal len(dims) or 1.
func keyIndex(key string, dims []int) (int, error) {
	coords, err := parseCompositeKey(key)
	if err != nil {
		return 0, err
	}
	if len(coords) == 1 && len(dims) != 1 {
		return coords[0], nil
	}
	if len(coords) != len(dims) {
		return 0, newConfigError("sparse key %q has arity %d, want %d or 1", key, len(coords), len(dims))
	}
	return numeric.MixedRadixIndex(coords, dims), nil
}

// BuildSparseMarkov parses a sparse transition dict
// {states:K, "0,1": {"0,2": 0.3, ...}, ...} into a dense K x K matrix,
// closing each row with P[i][i] = 1 - sum of the other entries.
func BuildSparseMarkov(states int, dims []int, raw map[string]map[string]float64) (*linalg.Matrix, error) {
	if len(dims) == 0 {
		dims = []int{states}
	}
	p := linalg.Zeros(states, states)
	rowTotal := make([]float64, states)
	for fromKey, row := range raw {
		from, err := keyIndex(fromKey, dims)
		if err != nil {
			return nil, err
		}
		if from < 0 || from >= states {
			return nil, newConfigError("sparse from-index %d out of range [0,%d)", from, states)
		}
		for toKey, prob := range row {
			to, err := keyIndex(toKey, dims)
			if err != nil {
				return nil, err
			}
			if to < 0 || to >= states {
				return nil, newConfigError("sparse to-index %d out of range [0,%d)", to, states)
			}
			if to == from {
				continue
			}
			p.Set(from, to, prob)
			rowTotal[from] += prob
		}
	}
	for i := 0; i < states; i++ {
		p.Set(i, i, 1-rowTotal[i])
	}
	return p, nil
}
