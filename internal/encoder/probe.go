package encoder

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// probeTimeout bounds the cost of the one-time capability probe. A wedged
// GPU driver can make the test encode hang forever.
const probeTimeout = 10 * time.Second

// Probe discovers whether NVENC encoding is usable on this machine.
//
// The answer is cached for the lifetime of the process: hardware
// capabilities don't change at runtime, and the test encode is expensive.
// Absence of a GPU is an expected, non-error outcome.
type Probe struct {
	ffmpegPath string

	once     sync.Once
	hasNVENC bool
}

// NewProbe creates a probe for the given ffmpeg binary. The binary is
// resolved through PATH if a bare name is given.
func NewProbe(ffmpegPath string) (*Probe, error) {
	path, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg binary not found: %w", err)
	}
	return &Probe{ffmpegPath: path}, nil
}

// HasNVENC reports whether NVENC encoding works. The first call runs the
// detection; later calls return the cached result. Safe for concurrent use.
func (p *Probe) HasNVENC(ctx context.Context) bool {
	p.once.Do(func() {
		p.hasNVENC = p.detect(ctx)
		if p.hasNVENC {
			log.Printf("Encoder probe: NVENC available (%s)", EncoderH264NVENC)
		} else {
			log.Printf("Encoder probe: no usable NVENC, using CPU encoders")
		}
	})
	return p.hasNVENC
}

// Choose picks the encoding path for a codec. When forceCPU is set the CPU
// path is used unconditionally, even on NVENC-capable machines.
func (p *Probe) Choose(ctx context.Context, codec Codec, forceCPU bool) (Choice, error) {
	cpuName, err := CPUEncoderFor(codec)
	if err != nil {
		return Choice{}, err
	}
	if forceCPU || !p.HasNVENC(ctx) {
		return Choice{Tag: TagCPU, Name: cpuName}, nil
	}
	gpuName, err := GPUEncoderFor(codec)
	if err != nil {
		return Choice{}, err
	}
	return Choice{Tag: TagGPU, Name: gpuName}, nil
}

// Require returns the GPU choice for a codec or ErrEncoderUnavailable.
// Used when the caller explicitly asked for hardware encoding; the error
// is surfaced before any job process starts.
func (p *Probe) Require(ctx context.Context, codec Codec) (Choice, error) {
	gpuName, err := GPUEncoderFor(codec)
	if err != nil {
		return Choice{}, err
	}
	if !p.HasNVENC(ctx) {
		return Choice{}, fmt.Errorf("%w: %s", ErrEncoderUnavailable, gpuName)
	}
	return Choice{Tag: TagGPU, Name: gpuName}, nil
}

// detect checks the encoder list first, then proves the encoder actually
// works with a minimal synthetic encode. A compiled-in encoder is not
// enough: FFmpeg on a machine without the driver still lists nvenc.
func (p *Probe) detect(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if !p.encoderCompiled(ctx, EncoderH264NVENC) {
		return false
	}
	return p.testEncode(ctx, EncoderH264NVENC)
}

// encoderCompiled asks FFmpeg what it supports. This is safer than checking
// drivers because it proves FFmpeg can actually SEE the encoder.
func (p *Probe) encoderCompiled(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, p.ffmpegPath, "-hide_banner", "-nostats", "-encoders")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return false
	}
	return strings.Contains(out.String(), name)
}

// testEncode runs a one-frame synthetic encode against the null muxer.
func (p *Probe) testEncode(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, p.ffmpegPath,
		"-hide_banner", "-nostats",
		"-f", "lavfi",
		"-i", "testsrc2=duration=0.1:size=320x240:rate=30",
		"-frames:v", "1",
		"-c:v", name,
		"-f", "null", "-",
	)
	return cmd.Run() == nil
}
