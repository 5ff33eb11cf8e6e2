// Package scenarios loads the canned configurations exercised by the CLI's
// single positional scenario selector from embedded YAML, using viper the
// way a training-config loader would, adapted here to read from an
// embedded filesystem rather than a disk path so the canned scenarios
// ship inside the binary (see DESIGN.md).
package scenarios

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/spf13/viper"

	"stochproc/config"
	"stochproc/ensemble"
	"stochproc/linalg"
)

//go:embed *.yaml
var files embed.FS

// Names lists every canned scenario selector the CLI accepts.
var Names = []string{"R1", "R2", "R2.1", "R2.3", "R2.4", "R3", "R3.1", "R3.2", "R3.3", "R4.1", "R4.2", "R5"}

// RawScenario is the YAML-friendly mirror of config.Input: plain slices and
// maps stand in for the *linalg.Matrix fields, which ToInput assembles.
type RawScenario struct {
	Description string      `mapstructure:"description"`
	N           int         `mapstructure:"n"`
	Steps       int         `mapstructure:"steps"`
	Dt          float64     `mapstructure:"dt"`
	CTMode      bool        `mapstructure:"ctmode"`
	Batch       int         `mapstructure:"batch"`
	Symbols     interface{} `mapstructure:"symbols"`

	Alpha           []float64       `mapstructure:"alpha"`
	TriangleP       []float64       `mapstructure:"triangleP"`
	MarkovDense     [][]float64     `mapstructure:"markovDense"`
	MarkovSparse    *RawSparse      `mapstructure:"markovSparse"`
	Bayes           *RawBayes       `mapstructure:"bayes"`
	GillespieStates int             `mapstructure:"gillespieStates"`
	GillespieRates  [][]float64     `mapstructure:"gillespieRates"`
	Rates           [][]float64     `mapstructure:"rates"`
	Gauss           *RawGauss       `mapstructure:"gauss"`
	Wiener          *RawWiener      `mapstructure:"wiener"`
	Ornstein        *RawOrnstein    `mapstructure:"ornstein"`
	EmP             *RawEmission    `mapstructure:"emP"`

	// LearningEvents, when present, is the canned event batch for a
	// learning-mode scenario.
	LearningEvents []ensemble.InputEvent `mapstructure:"learningEvents"`
}

type RawSparse struct {
	States int                            `mapstructure:"states"`
	Dims   []int                          `mapstructure:"dims"`
	Rows   map[string]map[string]float64  `mapstructure:"rows"`
}

type RawBayes struct {
	Net          []int       `mapstructure:"net"`
	Alpha        []float64   `mapstructure:"alpha"`
	TriangleP    []float64   `mapstructure:"triangleP"`
	MarkovDense  [][]float64 `mapstructure:"markovDense"`
	MarkovSparse *RawSparse  `mapstructure:"markovSparse"`
}

type RawGauss struct {
	Values  []float64   `mapstructure:"values"`
	Vectors [][]float64 `mapstructure:"vectors"`
	Ref     float64     `mapstructure:"ref"`
	Dim     int         `mapstructure:"dim"`
	Mean    float64     `mapstructure:"mean"`
}

type RawWiener struct {
	StepsPerUnitTime float64 `mapstructure:"stepsPerUnitTime"`
}

type RawOrnstein struct {
	Theta float64 `mapstructure:"theta"`
	Sigma float64 `mapstructure:"sigma"`
}

type RawEmission struct {
	Dims    []int         `mapstructure:"dims"`
	Weights []float64     `mapstructure:"weights"`
	Mu      [][]float64   `mapstructure:"mu"`
	Sigma   [][][]float64 `mapstructure:"sigma"`
}

// Load reads the named scenario's embedded YAML and parses it with viper.
func Load(name string) (*RawScenario, error) {
	data, err := files.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scenarios: unknown scenario %q: %w", name, err)
	}

	vp := viper.New()
	vp.SetConfigType("yaml")
	if err := vp.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("scenarios: parsing %q: %w", name, err)
	}

	raw := &RawScenario{}
	if err := vp.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("scenarios: decoding %q: %w", name, err)
	}
	return raw, nil
}

// ToInput assembles a config.Input from the raw YAML shape.
func (r *RawScenario) ToInput() config.Input {
	in := config.Input{
		N:               r.N,
		Steps:           r.Steps,
		Dt:              r.Dt,
		CTMode:          r.CTMode,
		Batch:           r.Batch,
		SymbolsV:        r.Symbols,
		Alpha:           r.Alpha,
		TriangleP:       r.TriangleP,
		MarkovDense:     toMatrix(r.MarkovDense),
		GillespieStates: r.GillespieStates,
		GillespieRates:  toMatrix(r.GillespieRates),
		Rates:           toMatrix(r.Rates),
	}

	if r.MarkovSparse != nil {
		in.MarkovSparse = &config.SparseMarkovInput{
			States: r.MarkovSparse.States,
			Dims:   r.MarkovSparse.Dims,
			Rows:   r.MarkovSparse.Rows,
		}
	}
	if r.Bayes != nil {
		in.Bayes = &config.BayesInput{
			Net:         r.Bayes.Net,
			Alpha:       r.Bayes.Alpha,
			TriangleP:   r.Bayes.TriangleP,
			MarkovDense: toMatrix(r.Bayes.MarkovDense),
		}
		if r.Bayes.MarkovSparse != nil {
			in.Bayes.MarkovSparse = &config.SparseMarkovInput{
				States: r.Bayes.MarkovSparse.States,
				Dims:   r.Bayes.MarkovSparse.Dims,
				Rows:   r.Bayes.MarkovSparse.Rows,
			}
		}
	}
	if r.Gauss != nil {
		in.Gauss = &config.GaussInput{
			Values:  r.Gauss.Values,
			Vectors: r.Gauss.Vectors,
			Ref:     r.Gauss.Ref,
			Dim:     r.Gauss.Dim,
			Mean:    r.Gauss.Mean,
		}
	}
	if r.Wiener != nil {
		in.Wiener = &config.WienerInput{StepsPerUnitTime: r.Wiener.StepsPerUnitTime}
	}
	if r.Ornstein != nil {
		in.Ornstein = &config.OrnsteinInput{Theta: r.Ornstein.Theta, Sigma: r.Ornstein.Sigma}
	}
	if r.EmP != nil {
		in.EmP = &config.EmissionSpec{
			Dims:    r.EmP.Dims,
			Weights: r.EmP.Weights,
			Mu:      r.EmP.Mu,
			Sigma:   r.EmP.Sigma,
		}
	}
	return in
}

func toMatrix(rows [][]float64) *linalg.Matrix {
	if rows == nil {
		return nil
	}
	r := len(rows)
	c := 0
	if r > 0 {
		c = len(rows[0])
	}
	flat := make([]float64, 0, r*c)
	for _, row := range rows {
		flat = append(flat, row...)
	}
	return linalg.NewMatrix(r, c, flat)
}
