package ffmpeg

import (
	"fmt"
	"strings"

	"ffmpeg-toolkit/internal/encoder"
)

// rotationFilters maps a clockwise rotation in degrees onto transpose
// filter steps.
var rotationFilters = map[int][]string{
	0:   nil,
	90:  {"transpose=1"},
	180: {"transpose=1", "transpose=1"},
	270: {"transpose=2"},
}

// AdjustJob rescales and/or rotates a video.
type AdjustJob struct {
	InputPath  string
	OutputPath string

	// Target dimensions in pixels. Zero derives the dimension from the
	// other one, keeping the aspect ratio.
	Width  int
	Height int

	// Clockwise rotation in degrees: 0, 90, 180 or 270.
	Rotation int

	Codec      encoder.Codec
	Preset     string
	CRF        int // 0 = encoder default
	ForceCPU   bool
	RequireGPU bool
}

func (j *AdjustJob) Validate() error {
	if j.InputPath == "" {
		return validationErrorf("input path", "must not be empty")
	}
	if j.OutputPath == "" {
		return validationErrorf("output path", "must not be empty")
	}
	if j.OutputPath == j.InputPath {
		return validationErrorf("output path", "must differ from input path")
	}
	if j.Codec != encoder.CodecH264 && j.Codec != encoder.CodecH265 {
		return validationErrorf("codec", "unsupported codec %q", j.Codec)
	}
	if j.Preset != "" && !validPresets[j.Preset] {
		return validationErrorf("preset", "unknown preset %q", j.Preset)
	}
	if j.CRF < 0 || j.CRF > 51 {
		return validationErrorf("crf", "%d outside 0-51", j.CRF)
	}
	if j.ForceCPU && j.RequireGPU {
		return validationErrorf("encoder policy", "force-cpu and require-gpu are mutually exclusive")
	}
	if j.Width < 0 {
		return validationErrorf("width", "%d must not be negative", j.Width)
	}
	if j.Height < 0 {
		return validationErrorf("height", "%d must not be negative", j.Height)
	}
	if _, ok := rotationFilters[j.Rotation]; !ok {
		return validationErrorf("rotation", "%d is not 0, 90, 180 or 270", j.Rotation)
	}
	if j.Width == 0 && j.Height == 0 && j.Rotation == 0 {
		return validationErrorf("adjustment", "neither scaling nor rotation requested")
	}
	return nil
}

// BuildAdjustWith produces arguments for a scale/rotate pass with an
// explicit encoder name. A missing dimension becomes -2 so FFmpeg keeps
// the aspect ratio with an even result.
func BuildAdjustWith(job *AdjustJob, encoderName string) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	var filters []string
	if job.Width > 0 || job.Height > 0 {
		w, h := job.Width, job.Height
		if w == 0 {
			w = -2
		}
		if h == 0 {
			h = -2
		}
		filters = append(filters, fmt.Sprintf("scale=%d:%d", w, h))
	}
	filters = append(filters, rotationFilters[job.Rotation]...)

	args := []string{
		"-hide_banner",
		"-y",
		"-i", job.InputPath,
		"-vf", strings.Join(filters, ","),
		"-c:v", encoderName,
		"-preset", presetOrDefault(job.Preset),
	}
	args = append(args, qualityArgs(encoderName, job.CRF)...)
	args = append(args,
		"-c:a", "copy",
		job.OutputPath,
	)
	return args, nil
}
