package analysis

import (
	"math"
	"math/bits"
	"math/cmplx"
)

// FFT is a radix-2 transform. Input whose length is not a power of two is
// zero padded.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n > 1 && n&(n-1) != 0 {
		padded := make([]float64, 1<<bits.Len(uint(n)))
		copy(padded, data)
		data = padded
	}
	return fft(data)
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude of the first half of the transform.
// Bin k is at k/(N·dt) Hz, where N is the padded length.
func PowerSpectrum(data []float64) []float64 {
	f := FFT(data)
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency of xs, sampled
// every dt seconds, and its share of the total spectral magnitude. The
// mean is removed first. Fewer than four samples give (0, 0).
func DominantFrequency(xs []float64, dt float64) (hz, share float64) {
	if len(xs) < 4 || dt <= 0 {
		return 0, 0
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	centered := make([]float64, len(xs))
	for i, x := range xs {
		centered[i] = x - mean
	}

	ps := PowerSpectrum(centered)
	n := 2 * len(ps)

	best, total := 0, 0.0
	for k := 1; k < len(ps); k++ {
		total += ps[k]
		if ps[k] > ps[best] || best == 0 {
			best = k
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(best) / (float64(n) * dt), ps[best] / total
}
