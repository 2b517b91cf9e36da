package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/egobh/config"
)

// OutcomeRecord is one row of outcomes.csv.
type OutcomeRecord struct {
	Run      int `csv:"run"`
	Day      int `csv:"day"`
	Dead     int `csv:"dead"`
	Survived int `csv:"survived"`
	R1       int `csv:"r1"`
	R2       int `csv:"r2"`
	R3       int `csv:"r3"`
	R4Plus   int `csv:"r4p"`
}

// NewOutcomeRecord flattens a day's outcome buckets.
func NewOutcomeRecord(s DayStats) OutcomeRecord {
	o := s.Outcomes
	return OutcomeRecord{
		Run:      s.Run,
		Day:      s.Day,
		Dead:     o.Dead,
		Survived: o.Survived,
		R1:       o.R1,
		R2:       o.R2,
		R3:       o.R3,
		R4Plus:   o.R4Plus,
	}
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir          string
	daysFile     *os.File
	outcomesFile *os.File

	// Track if headers have been written
	daysHeaderWritten     bool
	outcomesHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "days.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating days.csv: %w", err)
	}
	om.daysFile = f

	f, err = os.Create(filepath.Join(dir, "outcomes.csv"))
	if err != nil {
		om.daysFile.Close()
		return nil, fmt.Errorf("creating outcomes.csv: %w", err)
	}
	om.outcomesFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteDay appends a settled day to days.csv and outcomes.csv.
func (om *OutputManager) WriteDay(stats DayStats) error {
	if om == nil {
		return nil
	}

	if err := writeRecords(om.daysFile, []DayStats{stats}, &om.daysHeaderWritten); err != nil {
		return fmt.Errorf("writing day: %w", err)
	}
	if err := writeRecords(om.outcomesFile, []OutcomeRecord{NewOutcomeRecord(stats)}, &om.outcomesHeaderWritten); err != nil {
		return fmt.Errorf("writing outcomes: %w", err)
	}
	return nil
}

// writeRecords writes the header only on the first call for a file.
func writeRecords(f *os.File, records interface{}, headerWritten *bool) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.daysFile, om.outcomesFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
