package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/san-kum/aerosim/internal/config"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Time: 0, Bodies: []dynamo.Snapshot{
				{Handle: 1, Position: dynamo.Vec2{8, 8}},
				{Handle: 2, Position: dynamo.Vec2{9.1, 8}, Velocity: dynamo.Vec2{0.5, 0}},
			}},
			{Time: 0.1, Bodies: []dynamo.Snapshot{
				{Handle: 1, Position: dynamo.Vec2{8, 8.0981}, Velocity: dynamo.Vec2{0, 0.981}, AngleOfAttack: 0.1},
				{Handle: 2, Position: dynamo.Vec2{9.15, 19.7}, Velocity: dynamo.Vec2{0.5, 0}, OnGround: true},
			}},
		},
		Metrics:    map[string]float64{"bounces": 2},
		StepsTaken: 1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.Body.Count = 2

	runID, err := st.Save("drop", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "drop_") {
		t.Errorf("expected run id prefixed with the name, got %s", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Bodies != 2 {
		t.Errorf("expected 2 bodies, got %d", meta.Bodies)
	}
	if meta.Metrics["bounces"] != 2 {
		t.Errorf("expected bounces 2, got %f", meta.Metrics["bounces"])
	}

	frames, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}

	want := testResult().Frames
	for i := range want {
		for j := range want[i].Bodies {
			want[i].Bodies[j].Radius = cfg.Body.Radius
			want[i].Bodies[j].Mass = cfg.Body.Mass
		}
	}
	if diff := cmp.Diff(want, frames, cmpopts.EquateApprox(0, 1e-6), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	cfg := config.DefaultConfig()
	first, err := st.Save("test", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save("test", cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct run ids, got %s twice", first)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v (%v)", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save("test", config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not created: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "time,body,x,y,vx,vy,aoa,on_ground" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 5 {
		t.Errorf("expected header plus 4 rows, got %d lines", len(lines))
	}
}

func TestReadStatesRejectsGarbage(t *testing.T) {
	in := "time,body,x,y,vx,vy,aoa,on_ground\n0,1,abc,0,0,0,0,false\n"
	if _, err := ReadStates(strings.NewReader(in)); err == nil {
		t.Error("expected parse error")
	}
}

func TestStatesKeepSubMicrosecondFrames(t *testing.T) {
	frames := []sim.Frame{
		{Time: 1e-7, Bodies: []dynamo.Snapshot{{Handle: 1}, {Handle: 2}}},
		{Time: 2e-7, Bodies: []dynamo.Snapshot{{Handle: 1}, {Handle: 2}}},
		{Time: 3e-7, Bodies: []dynamo.Snapshot{{Handle: 1}, {Handle: 2}}},
	}
	var buf bytes.Buffer
	if err := WriteStates(&buf, frames); err != nil {
		t.Fatalf("write states: %v", err)
	}
	got, err := ReadStates(&buf)
	if err != nil {
		t.Fatalf("read states: %v", err)
	}
	if diff := cmp.Diff(frames, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestReadStatesSplitsRepeatedBody(t *testing.T) {
	in := "time,body,x,y,vx,vy,aoa,on_ground\n" +
		"0,1,0,0,0,0,0,false\n" +
		"0,2,0,0,0,0,0,false\n" +
		"0,1,1,0,0,0,0,false\n"
	frames, err := ReadStates(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read states: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if len(frames[0].Bodies) != 2 || len(frames[1].Bodies) != 1 {
		t.Errorf("unexpected grouping: %d and %d bodies", len(frames[0].Bodies), len(frames[1].Bodies))
	}
}

func TestSaveFailureLeavesNoRunDir(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	result := testResult()
	result.Metrics["energy"] = math.NaN()
	runID, err := st.Save("broken", config.DefaultConfig(), result)
	if err == nil {
		t.Fatal("expected save to fail on a NaN metric")
	}
	if runID != "" {
		t.Errorf("expected no run id, got %q", runID)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directories, found %d", len(entries))
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("test", config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportRun(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != runID {
		t.Errorf("expected run id %s, got %s", runID, data.Run.ID)
	}
	if len(data.Frames) != 2 || len(data.Frames[1].Bodies) != 2 {
		t.Fatalf("unexpected frames: %+v", data.Frames)
	}
	if !data.Frames[1].Bodies[1].OnGround {
		t.Error("expected second body on ground")
	}

	buf.Reset()
	if err := st.CopyStates(&buf, runID); err != nil {
		t.Fatalf("copy states failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "time,body") {
		t.Errorf("unexpected csv %q", buf.String())
	}
}
