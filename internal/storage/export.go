package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/aerosim/internal/sim"
)

type ExportSample struct {
	Body     uint32  `json:"body"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	AoA      float64 `json:"aoa"`
	OnGround bool    `json:"on_ground"`
}

type ExportFrame struct {
	Time   float64        `json:"time"`
	Bodies []ExportSample `json:"bodies"`
}

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

// ExportJSON writes metadata and frames as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		ef := ExportFrame{Time: f.Time, Bodies: make([]ExportSample, len(f.Bodies))}
		for j, b := range f.Bodies {
			ef.Bodies[j] = ExportSample{
				Body:     uint32(b.Handle),
				X:        b.Position[0],
				Y:        b.Position[1],
				VX:       b.Velocity[0],
				VY:       b.Velocity[1],
				AoA:      b.AngleOfAttack,
				OnGround: b.OnGround,
			}
		}
		data.Frames[i] = ef
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportRun writes a stored run as JSON.
func (s *Store) ExportRun(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, *meta, frames)
}

// CopyStates streams the raw CSV of a stored run.
func (s *Store) CopyStates(w io.Writer, runID string) error {
	f, err := s.OpenStates(runID)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
