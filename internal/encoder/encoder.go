package encoder

import (
	"errors"
	"fmt"
)

// Codec is a target video codec requested by a job.
type Codec string

const (
	CodecH264 Codec = "h264"
	CodecH265 Codec = "h265"
)

// Tag distinguishes hardware and software encoding paths.
type Tag string

const (
	TagGPU Tag = "gpu"
	TagCPU Tag = "cpu"
)

// Define constants for the supported encoder names to avoid "magic strings".
// These are used by probe.go to set the state and by the command builder to
// select the -c:v argument.
const (
	EncoderH264NVENC = "h264_nvenc"
	EncoderH265NVENC = "hevc_nvenc"
	EncoderH264CPU   = "libx264"
	EncoderH265CPU   = "libx265"
)

// ErrEncoderUnavailable is returned when a job explicitly requires GPU
// encoding but the probe found no usable hardware encoder. It is detected
// before any job process is spawned so the caller can warn or fall back
// visibly instead of silently.
var ErrEncoderUnavailable = errors.New("gpu encoder requested but not available")

// Choice is the result of capability probing: which encoding path to take
// and the concrete FFmpeg encoder name. Computed once per job, never
// mutated afterward.
type Choice struct {
	Tag  Tag
	Name string
}

// GPUEncoderFor returns the NVENC encoder name for a codec.
func GPUEncoderFor(codec Codec) (string, error) {
	switch codec {
	case CodecH264:
		return EncoderH264NVENC, nil
	case CodecH265:
		return EncoderH265NVENC, nil
	}
	return "", fmt.Errorf("unsupported codec: %q", codec)
}

// CPUEncoderFor returns the software fallback encoder name for a codec.
func CPUEncoderFor(codec Codec) (string, error) {
	switch codec {
	case CodecH264:
		return EncoderH264CPU, nil
	case CodecH265:
		return EncoderH265CPU, nil
	}
	return "", fmt.Errorf("unsupported codec: %q", codec)
}
