package main

import (
	"math"

	"github.com/pthm-cable/egobh/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64
	Integer bool // rounded before use
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable settlement rules.
// Defaults are read from base so a run starts where the config is.
func NewParamVector(base *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "survive_points", Path: "rules.survive_points", Min: 10, Max: 200, Default: base.Rules.SurvivePoints},
			{Name: "repro_every", Path: "rules.repro_every", Min: 10, Max: 200, Default: base.Rules.ReproEvery},
			{Name: "target_cows", Path: "rules.target_cows", Min: 5, Max: 200, Default: float64(base.Rules.TargetCows), Integer: true},
			{Name: "mutation_keep_prob", Path: "rules.mutation_keep_prob", Min: 0, Max: 1, Default: base.Rules.MutationKeepProb},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp keeps every value within bounds and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			clamped[i] = math.Round(clamped[i])
		}
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Rules.SurvivePoints = c[0]
	cfg.Rules.ReproEvery = c[1]
	cfg.Rules.TargetCows = int(c[2])
	cfg.Rules.MutationKeepProb = c[3]
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Rules.SurvivePoints,
		cfg.Rules.ReproEvery,
		float64(cfg.Rules.TargetCows),
		cfg.Rules.MutationKeepProb,
	}
}
