// Package viz renders a running experiment in the terminal with Bubble Tea.
//
// The field is drawn on a braille [Canvas]: the world border, a short trail
// behind every body and a nose line on the selected body showing its angle
// of attack. A side panel shows the selected body's state, an energy
// sparkline and a speed chart.
//
// # Key Bindings
//
//	A/D   - Wind left/right
//	W/S   - Angle of attack up/down one degree
//	Tab   - Select next body
//	Space - Pause/Resume
//	R     - Reset
//	[ ]   - Replay recorded frames
//	?     - Help
//	Q     - Quit
package viz
