package internal

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"
)

// DefaultSampleRate is used when a caller passes zero
const DefaultSampleRate = 44100

// Amplitude returns the envelope gain at offset t (seconds) into a tone of
// total length seconds.
func (e Envelope) Amplitude(t, total float64) float64 {
	if t < 0 || t > total {
		return 0
	}
	gain := e.Peak
	if e.AttackSeconds > 0 && t < e.AttackSeconds {
		gain *= t / e.AttackSeconds
	}
	if remaining := total - t; e.ReleaseSeconds > 0 && remaining < e.ReleaseSeconds {
		gain *= remaining / e.ReleaseSeconds
	}
	if e.PulseHz > 0 {
		gain *= 0.75 + 0.25*math.Sin(2*math.Pi*e.PulseHz*t)
	}
	return gain
}

// RenderTone renders the policy as mono float samples in [-1, 1].
// A zero length renders the policy's full duration.
func RenderTone(p Policy, sampleRate int, length time.Duration) ([]float32, error) {
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	if sampleRate < 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	if length <= 0 {
		length = p.Duration
	}
	total := length.Seconds()
	n := int(total * float64(sampleRate))
	samples := make([]float32, n)
	step := 2 * math.Pi * p.Frequency / float64(sampleRate)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = float32(p.Envelope.Amplitude(t, total) * math.Sin(step*float64(i)))
	}
	return samples, nil
}

// WriteWAV writes samples as a 16-bit PCM mono WAV stream
func WriteWAV(w io.Writer, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	const (
		channels      = 1
		bitsPerSample = 16
	)
	dataLen := uint32(len(samples) * bitsPerSample / 8)
	header := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataLen,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * bitsPerSample / 8),
		BlockAlign:    channels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataLen,
	}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		pcm[i] = int16(v * math.MaxInt16)
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("failed to write wav data: %w", err)
	}
	return nil
}
