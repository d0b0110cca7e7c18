package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/aerosim/internal/analysis"
	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/export"
	"github.com/san-kum/aerosim/internal/storage"
	"github.com/san-kum/aerosim/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBODIES\tDURATION\tDT\tINTEG\tCTRL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	track := make([]dynamo.Snapshot, 0, len(frames))
	for _, f := range frames {
		if s, ok := f.Body(dynamo.Handle(plotBody)); ok {
			track = append(track, s)
		}
	}
	if len(track) == 0 {
		return fmt.Errorf("no data for body %d", plotBody)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("body: %d of %d\n", plotBody, meta.Bodies)
	fmt.Printf("samples: %d\n\n", len(track))

	series := []struct {
		caption string
		value   func(dynamo.Snapshot) float64
	}{
		{"x (m)", func(s dynamo.Snapshot) float64 { return s.Position[0] }},
		// negated so up on the chart is up in the world
		{"height (m)", func(s dynamo.Snapshot) float64 { return meta.Height - s.Position[1] }},
		{"vx (m/s)", func(s dynamo.Snapshot) float64 { return s.Velocity[0] }},
		{"vy (m/s, down positive)", func(s dynamo.Snapshot) float64 { return s.Velocity[1] }},
	}
	for _, sr := range series {
		data := make([]float64, len(track))
		for i, s := range track {
			data[i] = sr.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		))
		fmt.Println()
	}
	return nil
}

// pathPlot draws every body's path on a braille canvas of the field.
func pathPlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	canvas := viz.NewCanvas(70, 24)
	view := viz.NewViewport(canvas, meta.Width, meta.Height)
	dx, dy := canvas.Dots()
	canvas.DrawRect(0, 0, dx-1, dy-1)
	for _, f := range frames {
		for _, b := range f.Bodies {
			canvas.Set(view.Project(b.Position))
		}
	}
	for _, b := range frames[len(frames)-1].Bodies {
		x, y := view.Project(b.Position)
		canvas.DrawCircle(x, y, max(view.Scale(b.Radius), 1))
	}

	fmt.Printf("paths: %s (%.0fx%.0f m)\n\n", meta.ID, meta.Width, meta.Height)
	fmt.Print(canvas.String())
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportRun(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).CopyStates(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	return export.TrajectoryToSVG(os.Stdout, frames, export.TrajectoryOptions{
		Width:          meta.Width,
		Height:         meta.Height,
		PixelsPerMeter: svgScale,
	})
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("not enough data to analyze")
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tAPEXES\tFIRST_APEX\tDECAY\tY_FREQ\tY_AMP")
	for _, b := range frames[0].Bodies {
		apexes := analysis.Apexes(frames, b.Handle, meta.Height)
		first := 0.0
		if len(apexes) > 0 {
			first = apexes[0].Height
		}
		ys := make([]float64, 0, len(frames))
		for _, f := range frames {
			if s, ok := f.Body(b.Handle); ok {
				ys = append(ys, s.Position[1])
			}
		}
		freq, amp := analysis.DominantFrequency(ys, meta.Dt)
		fmt.Fprintf(w, "%d\t%d\t%.3f m\t%.3f\t%.3f Hz\t%.3f m\n",
			b.Handle, len(apexes), first, analysis.BounceDecay(apexes), freq, amp)
	}
	return w.Flush()
}
