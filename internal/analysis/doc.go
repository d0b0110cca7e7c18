// Package analysis characterizes recorded runs.
//
//   - [Spectrum] and [DominantFrequency]: amplitude spectrum of a sampled signal
//   - [Apexes]: the top of each flight between floor contacts
//   - [BounceDecay]: mean ratio of successive apex heights
//
// For a ball dropped on the floor with no drag the apex ratio approaches the
// square of the floor restitution:
//
//	apexes := analysis.Apexes(frames, h, height)
//	e2 := analysis.BounceDecay(apexes)
package analysis
