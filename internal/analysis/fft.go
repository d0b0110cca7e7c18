package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum returns the one-sided amplitude spectrum of samples taken every
// dt. The mean is removed first; any sample count is accepted.
func Spectrum(samples []float64, dt float64) (freqs, amps []float64) {
	if len(samples) < 2 || dt <= 0 {
		return nil, nil
	}
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	n := len(samples)
	buf := make([]float64, n)
	for i, v := range samples {
		buf[i] = v - mean
	}
	out := fft.FFTReal(buf)

	freqs = make([]float64, n/2)
	amps = make([]float64, n/2)
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
		amps[k] = 2 * cmplx.Abs(out[k]) / float64(n)
	}
	return freqs, amps
}

// DominantFrequency returns the strongest non-zero frequency and its
// amplitude.
func DominantFrequency(samples []float64, dt float64) (float64, float64) {
	freqs, amps := Spectrum(samples, dt)
	best := 0
	for k := 1; k < len(amps); k++ {
		if best == 0 || amps[k] > amps[best] {
			best = k
		}
	}
	if best == 0 {
		return 0, 0
	}
	return freqs[best], amps[best]
}
