package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/StuyPulse/StuyLib-sub001/internal/config"
	"github.com/StuyPulse/StuyLib-sub001/internal/logging"
	"github.com/StuyPulse/StuyLib-sub001/internal/plant"
	"github.com/StuyPulse/StuyLib-sub001/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	configFile   = "config.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	clock   clock.Clock
	logger  *zap.SugaredLogger
}

type Option func(*Store)

// WithClock sets the source of run timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Store) { s.logger = l }
}

func New(baseDir string, opts ...Option) *Store {
	s := &Store{baseDir: baseDir}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	s.logger = logging.OrGlobal(s.logger).Named("storage")
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Mechanism  string             `json:"mechanism"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Gains      map[string]float64 `json:"gains"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newMetadata(id string, ts time.Time, cfg *config.Config, result *sim.Result) RunMetadata {
	return RunMetadata{
		ID:         id,
		Mechanism:  cfg.Mechanism,
		Timestamp:  ts,
		Dt:         cfg.Sim.Dt,
		Duration:   cfg.Sim.Duration,
		Steps:      result.StepsTaken,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Gains:      cfg.GainsMap(),
		Metrics:    finite(result.Metrics),
	}
}

// finite drops values JSON cannot encode.
func finite(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[k] = v
	}
	return out
}

// Save writes the run's metadata, configuration and samples and returns
// its ID.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	now := s.clock.Now()
	runID, runDir, err := s.newRunDir(fmt.Sprintf("%s_%s_%d", cfg.Mechanism, cfg.Controller, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := newMetadata(runID, now, cfg, result)
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result); err != nil {
		return "", err
	}

	s.logger.Infow("saved run", "id", runID, "steps", result.StepsTaken)
	return runID, nil
}

// newRunDir creates a directory for base, adding a suffix if a run with
// the same name already exists.
func (s *Store) newRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSamples(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "setpoint", "measurement", "output"}
	if len(result.States) > 0 {
		for i := range result.States[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < result.Len(); i++ {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(result.Setpoints[i]),
			formatFloat(result.Measurements[i]),
			formatFloat(result.Outputs[i]),
		}
		if i < len(result.States) {
			for _, val := range result.States[i] {
				row = append(row, formatFloat(val))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.logger.Debugw("skipping unreadable run", "dir", entry.Name(), "error", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "reading metadata of %s", runID)
	}
	return &meta, nil
}

// LoadConfig returns the configuration the run was made with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(s.baseDir, runID, configFile))
	if os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(ErrRunNotFound, runID)
	}
	return cfg, err
}

// LoadResult reads a run's samples back into a result.
func (s *Store) LoadResult(runID string) (*sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &sim.Result{Metrics: meta.Metrics}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 4 {
			return nil, errors.Errorf("%s: row %d has %d columns", runID, i, len(record))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, errors.Wrapf(err, "%s: row %d", runID, i)
			}
		}
		result.Times = append(result.Times, vals[0])
		result.Setpoints = append(result.Setpoints, vals[1])
		result.Measurements = append(result.Measurements, vals[2])
		result.Outputs = append(result.Outputs, vals[3])
		result.States = append(result.States, plant.State(vals[4:]))
	}
	result.StepsTaken = len(result.Times)
	return result, nil
}
