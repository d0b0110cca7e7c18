package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/aerosim/internal/dynamo"
	"github.com/san-kum/aerosim/internal/sim"
	"github.com/san-kum/aerosim/internal/viz"
)

// Palette cycles through body colors in handle order.
var Palette = []string{"#00ccff", "#ff8866", "#00ff88", "#ffcc00", "#cc88ff", "#ff4488"}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	dx, dy := canvas.Dots()
	width := float64(dx) * scale
	height := float64(dy) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryOptions sizes a trajectory drawing.
type TrajectoryOptions struct {
	Width, Height  float64 // world extent in meters
	PixelsPerMeter float64
}

// TrajectoryToSVG draws the world box, one path per body and each body's
// final position. World and SVG share the y-down orientation.
func TrajectoryToSVG(w io.Writer, frames []sim.Frame, opts TrajectoryOptions) error {
	if len(frames) == 0 {
		return errors.New("no frames to draw")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid world size %vx%v", opts.Width, opts.Height)
	}
	if opts.PixelsPerMeter <= 0 {
		opts.PixelsPerMeter = 40
	}
	s := opts.PixelsPerMeter
	width, height := opts.Width*s, opts.Height*s

	order := make([]dynamo.Handle, 0, len(frames[0].Bodies))
	paths := make(map[dynamo.Handle]*strings.Builder)
	last := make(map[dynamo.Handle]dynamo.Snapshot)
	for _, f := range frames {
		for _, b := range f.Bodies {
			p, ok := paths[b.Handle]
			if !ok {
				p = &strings.Builder{}
				paths[b.Handle] = p
				order = append(order, b.Handle)
				fmt.Fprintf(p, "M%.1f,%.1f", b.Position[0]*s, b.Position[1]*s)
			} else {
				fmt.Fprintf(p, " L%.1f,%.1f", b.Position[0]*s, b.Position[1]*s)
			}
			last[b.Handle] = b
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="0" y="0" width="%.0f" height="%.0f" fill="none" stroke="#3a4a66" stroke-width="2"/>
<line x1="0" y1="%.0f" x2="%.0f" y2="%.0f" stroke="#888899" stroke-width="3"/>
`, width, height, width, height, width, height, height, width, height)

	for i, h := range order {
		color := Palette[i%len(Palette)]
		fmt.Fprintf(bw, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n", color, paths[h].String())
		b := last[h]
		fmt.Fprintf(bw, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			b.Position[0]*s, b.Position[1]*s, b.Radius*s, color)
	}
	fmt.Fprintf(bw, "<text x=\"8\" y=\"18\" fill=\"#667088\" font-family=\"monospace\" font-size=\"12\">t=%.2fs</text>\n", frames[len(frames)-1].Time)
	bw.WriteString("</svg>\n")
	return bw.Flush()
}
