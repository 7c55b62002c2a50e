// Package voice computes scalar acoustic descriptors from a recorded
// WAV answer: overall energy, fundamental pitch, speaking tempo and
// duration. The numbers feed the evaluator's level mapping.
package voice

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/wav"
)

const (
	rmsWindow     = 1024
	pitchSegment  = 8192
	pitchMinHz    = 50
	pitchMaxHz    = 400
	defaultTempo  = 120.0
	peakThreshold = 1.5
)

type Features struct {
	Energy   float64
	Pitch    float64
	Tempo    float64
	Duration float64
}

// Extract decodes the WAV payload and computes its features. A payload
// that cannot be decoded is an error; the caller decides how to degrade.
func Extract(wavData []byte) (Features, error) {
	if len(wavData) == 0 {
		return Features{}, errors.New("voice: empty audio payload")
	}

	decoder := wav.NewDecoder(bytes.NewReader(wavData))
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return Features{}, errors.New("voice: not a valid wav payload")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Features{}, fmt.Errorf("voice: decoding pcm: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 || buf.Format == nil || buf.Format.SampleRate == 0 {
		return Features{}, errors.New("voice: no samples decoded")
	}

	samples := monoSamples(buf.Data, buf.Format.NumChannels, int(decoder.BitDepth))
	sampleRate := buf.Format.SampleRate
	duration := float64(len(samples)) / float64(sampleRate)

	return Features{
		Energy:   meanRMS(samples),
		Pitch:    estimatePitch(samples, sampleRate),
		Tempo:    estimateTempo(samples, duration),
		Duration: duration,
	}, nil
}

// monoSamples folds interleaved channels into one normalized [-1,1] track.
func monoSamples(data []int, channels int, bitDepth int) []float64 {
	if channels < 1 {
		channels = 1
	}
	if bitDepth < 8 {
		bitDepth = 16
	}
	scale := float64(int(1) << (bitDepth - 1))

	frames := len(data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return samples
}

func meanRMS(samples []float64) float64 {
	windows := windowRMS(samples)
	if len(windows) == 0 {
		return 0
	}

	var sum float64
	for _, w := range windows {
		sum += w
	}
	return sum / float64(len(windows))
}

func windowRMS(samples []float64) []float64 {
	var windows []float64
	for start := 0; start < len(samples); start += rmsWindow {
		end := start + rmsWindow
		if end > len(samples) {
			end = len(samples)
		}

		var sum float64
		for _, v := range samples[start:end] {
			sum += v * v
		}
		windows = append(windows, math.Sqrt(sum/float64(end-start)))
	}
	return windows
}

// estimatePitch runs a normalized autocorrelation over a segment from the
// middle of the recording and picks the strongest lag in the speech band.
// Returns 0 when no periodicity stands out.
func estimatePitch(samples []float64, sampleRate int) float64 {
	segment := samples
	if len(segment) > pitchSegment {
		mid := len(segment) / 2
		segment = segment[mid-pitchSegment/2 : mid+pitchSegment/2]
	}

	minLag := sampleRate / pitchMaxHz
	maxLag := sampleRate / pitchMinHz
	if maxLag >= len(segment) {
		maxLag = len(segment) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return 0
	}

	var energy float64
	for _, v := range segment {
		energy += v * v
	}
	if energy == 0 {
		return 0
	}

	var bestLag int
	var bestCorr float64
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(segment); i++ {
			corr += segment[i] * segment[i+lag]
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < 0.3 {
		return 0
	}
	return float64(sampleRate) / float64(bestLag)
}

// estimateTempo counts energy bursts per minute. A flat recording yields
// no peaks and falls back to the neutral 120 BPM the level mapping treats
// as the slow/fast boundary.
func estimateTempo(samples []float64, duration float64) float64 {
	if duration <= 0 {
		return defaultTempo
	}

	windows := windowRMS(samples)
	if len(windows) < 3 {
		return defaultTempo
	}

	var mean float64
	for _, w := range windows {
		mean += w
	}
	mean /= float64(len(windows))

	var peaks int
	for i := 1; i < len(windows)-1; i++ {
		if windows[i] > mean*peakThreshold && windows[i] > windows[i-1] && windows[i] >= windows[i+1] {
			peaks++
		}
	}

	if peaks == 0 {
		return defaultTempo
	}
	return float64(peaks) / duration * 60
}
