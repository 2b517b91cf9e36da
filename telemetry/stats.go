// Package telemetry aggregates per-day statistics and writes them out.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/egobh/systems"
)

// EgoHistogramBuckets is the number of whole-percent ego buckets (0..100).
const EgoHistogramBuckets = 101

// DayStats summarizes one settled day.
type DayStats struct {
	// Run counts population resets within one game, starting at 1
	Run              int     `csv:"run"`
	Day              int     `csv:"day"`
	PopulationBefore int     `csv:"population_before"`
	PopulationAfter  int     `csv:"population_after"`
	Deaths           int     `csv:"deaths"`
	Births           int     `csv:"births"`
	CowsClaimed      int     `csv:"cows_claimed"`
	AvgDistance      float64 `csv:"avg_distance"`
	CoveragePct      float64 `csv:"coverage_pct"`
	Homes            int     `csv:"homes"`

	// Ego distribution of the population that lived through the day
	EgoMean float64 `csv:"ego_mean"`
	EgoStd  float64 `csv:"ego_std"`
	EgoP10  float64 `csv:"ego_p10"`
	EgoP50  float64 `csv:"ego_p50"`
	EgoP90  float64 `csv:"ego_p90"`

	Outcomes systems.OutcomeBuckets `csv:"-"`
}

// EgoStats holds summary statistics of a set of egos.
type EgoStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeEgoStats returns mean, population std-dev and quantiles.
// An empty input yields all zeros.
func ComputeEgoStats(egos []float64) EgoStats {
	if len(egos) == 0 {
		return EgoStats{}
	}
	sorted := make([]float64, len(egos))
	copy(sorted, egos)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	return EgoStats{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}

// AverageOrZero returns the mean of values, or 0 when empty.
func AverageOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values) / float64(len(values))
}

// EgoHistogram counts egos into whole-percent buckets.
func EgoHistogram(egos []float64) [EgoHistogramBuckets]int {
	var h [EgoHistogramBuckets]int
	for _, e := range egos {
		h[systems.EgoBucket(e)]++
	}
	return h
}

// SetEgoStats copies ego statistics into the record.
func (s *DayStats) SetEgoStats(e EgoStats) {
	s.EgoMean = e.Mean
	s.EgoStd = e.Std
	s.EgoP10 = e.P10
	s.EgoP50 = e.P50
	s.EgoP90 = e.P90
}

// LogValue implements slog.LogValuer for structured logging.
func (s DayStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("day", s.Day),
		slog.Int("population_before", s.PopulationBefore),
		slog.Int("population_after", s.PopulationAfter),
		slog.Int("deaths", s.Deaths),
		slog.Int("births", s.Births),
		slog.Int("cows_claimed", s.CowsClaimed),
		slog.Float64("avg_distance", s.AvgDistance),
		slog.Float64("coverage_pct", s.CoveragePct),
		slog.Int("homes", s.Homes),
		slog.Float64("ego_mean", s.EgoMean),
		slog.Float64("ego_std", s.EgoStd),
		slog.Float64("ego_p10", s.EgoP10),
		slog.Float64("ego_p50", s.EgoP50),
		slog.Float64("ego_p90", s.EgoP90),
		slog.Any("outcomes", s.Outcomes),
	)
}

// LogStats logs the day stats using slog.
func (s DayStats) LogStats() {
	slog.Info("day_stats", "stats", s)
}
