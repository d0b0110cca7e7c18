package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var statesHeader = []string{"time", "body", "x", "y", "vx", "vy", "aoa", "on_ground"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Gravity    float64            `json:"gravity"`
	Radius     float64            `json:"radius"`
	Mass       float64            `json:"mass"`
	Bodies     int                `json:"bodies"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// NewMetadata fills the run description from the config that produced it.
func NewMetadata(name string, cfg *config.Config, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		Name:       name,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		Width:      cfg.World.Width,
		Height:     cfg.World.Height,
		Gravity:    cfg.World.Gravity,
		Radius:     cfg.Body.Radius,
		Mass:       cfg.Body.Mass,
		Bodies:     cfg.Body.Count,
		Steps:      result.StepsTaken,
		Metrics:    result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	return meta
}

// Save writes a run directory and returns its id. A failed save leaves no
// directory behind.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (runID string, err error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	meta := NewMetadata(name, cfg, result)

	runID, runDir, err := s.newRunDir(name, meta.Timestamp)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("run %s: %w", runID, err)
	}

	f, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := WriteStates(f, result.Frames); err != nil {
		return "", err
	}
	return runID, f.Close()
}

func (s *Store) newRunDir(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%s", name, ts.Format("20060102_150405"))
	for i := 1; ; i++ {
		runID := base
		if i > 1 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
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
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// formatTime keeps every digit so distinct frame times never collide.
func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteStates writes one CSV row per body per frame.
func WriteStates(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statesHeader); err != nil {
		return err
	}
	for _, f := range frames {
		for _, b := range f.Bodies {
			row := []string{
				formatTime(f.Time),
				strconv.FormatUint(uint64(b.Handle), 10),
				formatFloat(b.Position[0]),
				formatFloat(b.Position[1]),
				formatFloat(b.Velocity[0]),
				formatFloat(b.Velocity[1]),
				formatFloat(b.AngleOfAttack),
				strconv.FormatBool(b.OnGround),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// List returns stored runs, newest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// OpenStates opens the raw CSV of a run.
func (s *Store) OpenStates(runID string) (*os.File, error) {
	return os.Open(filepath.Join(s.baseDir, runID, statesFile))
}

// LoadStates reads a run back as frames. Radius and mass come from the
// metadata since the CSV does not carry them.
func (s *Store) LoadStates(runID string) ([]sim.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	f, err := s.OpenStates(runID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frames, err := ReadStates(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	for i := range frames {
		for j := range frames[i].Bodies {
			frames[i].Bodies[j].Radius = meta.Radius
			frames[i].Bodies[j].Mass = meta.Mass
		}
	}
	return frames, nil
}

// ReadStates parses rows written by WriteStates, grouping consecutive rows
// with the same time into one frame. A body seen twice starts a new frame.
func ReadStates(r io.Reader) ([]sim.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(statesHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	lastTime := ""
	for i, rec := range records[1:] {
		snap, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		if len(frames) == 0 || rec[0] != lastTime || hasBody(frames[len(frames)-1], snap.Handle) {
			t, _ := strconv.ParseFloat(rec[0], 64)
			frames = append(frames, sim.Frame{Time: t})
			lastTime = rec[0]
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, snap)
	}
	return frames, nil
}

func hasBody(f sim.Frame, h dynamo.Handle) bool {
	for _, b := range f.Bodies {
		if b.Handle == h {
			return true
		}
	}
	return false
}

func parseRow(rec []string) (dynamo.Snapshot, error) {
	var vals [7]float64
	for i := range vals {
		if i == 1 {
			continue
		}
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return dynamo.Snapshot{}, fmt.Errorf("column %s: %w", statesHeader[i], err)
		}
		vals[i] = v
	}
	h, err := strconv.ParseUint(rec[1], 10, 32)
	if err != nil {
		return dynamo.Snapshot{}, fmt.Errorf("column body: %w", err)
	}
	onGround, err := strconv.ParseBool(rec[7])
	if err != nil {
		return dynamo.Snapshot{}, fmt.Errorf("column on_ground: %w", err)
	}
	return dynamo.Snapshot{
		Handle:        dynamo.Handle(h),
		Position:      dynamo.Vec2{vals[2], vals[3]},
		Velocity:      dynamo.Vec2{vals[4], vals[5]},
		AngleOfAttack: vals[6],
		OnGround:      onGround,
	}, nil
}
