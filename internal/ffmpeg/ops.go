package ffmpeg

import (
	"fmt"
	"regexp"

	"ffmpeg-toolkit/internal/encoder"
)

// Argument builders for the non-subtitle operations: conversion, trimming,
// screenshots and audio extraction. All follow the same contract as
// BuildBurn: validate first, then emit a deterministic token list.

// ConvertJob describes a container/codec conversion.
type ConvertJob struct {
	InputPath  string
	OutputPath string
	Codec      encoder.Codec
	Preset     string
	CRF        int // 0 = encoder default
	ForceCPU   bool
	RequireGPU bool
}

func (j *ConvertJob) Validate() error {
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
	return nil
}

// BuildConvertWith produces arguments for a conversion with an explicit
// encoder name.
func BuildConvertWith(job *ConvertJob, encoderName string) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	args := []string{
		"-hide_banner",
		"-y",
		"-i", job.InputPath,
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

// timeRegexClock matches HH:MM:SS with optional fractional seconds.
var (
	timeRegexClock   = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`)
	timeRegexSeconds = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ValidTimeFormat reports whether a timestamp is HH:MM:SS(.mmm) or bare
// seconds. The empty string is valid where a bound is optional.
func ValidTimeFormat(t string) bool {
	if t == "" {
		return true
	}
	return timeRegexSeconds.MatchString(t) || timeRegexClock.MatchString(t)
}

// TrimJob cuts a segment out of a video.
type TrimJob struct {
	InputPath  string
	OutputPath string
	Start      string // HH:MM:SS or seconds; empty = from beginning
	End        string // empty = to the end
	CopyMode   bool   // true: stream copy (fast), false: re-encode (frame accurate)
}

func (j *TrimJob) Validate() error {
	if j.InputPath == "" {
		return validationErrorf("input path", "must not be empty")
	}
	if j.OutputPath == "" {
		return validationErrorf("output path", "must not be empty")
	}
	if j.OutputPath == j.InputPath {
		return validationErrorf("output path", "must differ from input path")
	}
	if !ValidTimeFormat(j.Start) {
		return validationErrorf("start time", "%q is not HH:MM:SS or seconds", j.Start)
	}
	if !ValidTimeFormat(j.End) {
		return validationErrorf("end time", "%q is not HH:MM:SS or seconds", j.End)
	}
	return nil
}

// BuildTrim produces arguments for a trim. Trimming never re-encodes on
// the GPU; copy mode does not touch the codec at all.
func BuildTrim(job *TrimJob) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	args := []string{"-hide_banner", "-y", "-i", job.InputPath}
	if job.Start != "" {
		args = append(args, "-ss", job.Start)
	}
	if job.End != "" {
		args = append(args, "-to", job.End)
	}
	if job.CopyMode {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-c:v", encoder.EncoderH264CPU, "-preset", "medium", "-c:a", "aac")
	}
	args = append(args, job.OutputPath)
	return args, nil
}

// ScreenshotJob captures a single frame.
type ScreenshotJob struct {
	InputPath  string
	OutputPath string
	Timestamp  string // HH:MM:SS or seconds
	JPEG       bool   // false = PNG
}

func (j *ScreenshotJob) Validate() error {
	if j.InputPath == "" {
		return validationErrorf("input path", "must not be empty")
	}
	if j.OutputPath == "" {
		return validationErrorf("output path", "must not be empty")
	}
	if !ValidTimeFormat(j.Timestamp) {
		return validationErrorf("timestamp", "%q is not HH:MM:SS or seconds", j.Timestamp)
	}
	return nil
}

// BuildScreenshot produces arguments for a single-frame capture.
// Input seeking (-ss before -i) keeps it fast on long videos.
func BuildScreenshot(job *ScreenshotJob) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	args := []string{"-hide_banner", "-y"}
	if job.Timestamp != "" {
		args = append(args, "-ss", job.Timestamp)
	}
	args = append(args, "-i", job.InputPath, "-frames:v", "1")
	if job.JPEG {
		args = append(args, "-c:v", "mjpeg", "-q:v", "2")
	}
	args = append(args, job.OutputPath)
	return args, nil
}

// BatchScreenshotJob captures one frame every Interval seconds. OutputPath
// must contain a printf-style frame counter, e.g. frame_%04d.png.
type BatchScreenshotJob struct {
	InputPath  string
	OutputPath string
	Interval   int
	JPEG       bool
}

func (j *BatchScreenshotJob) Validate() error {
	if j.InputPath == "" {
		return validationErrorf("input path", "must not be empty")
	}
	if j.OutputPath == "" {
		return validationErrorf("output path", "must not be empty")
	}
	if j.Interval <= 0 {
		return validationErrorf("interval", "%d must be positive", j.Interval)
	}
	return nil
}

// BuildBatchScreenshot produces arguments for interval capture via the fps
// filter: fps=1/N emits one frame every N seconds.
func BuildBatchScreenshot(job *BatchScreenshotJob) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	args := []string{
		"-hide_banner", "-y",
		"-i", job.InputPath,
		"-vf", fmt.Sprintf("fps=1/%d", job.Interval),
	}
	if job.JPEG {
		args = append(args, "-c:v", "mjpeg", "-q:v", "2")
	}
	args = append(args, job.OutputPath)
	return args, nil
}

// AudioFormat describes a supported extraction target.
type AudioFormat struct {
	Ext   string
	Codec string
	Extra []string
}

// AudioFormats maps user-facing format names to FFmpeg codec settings.
var AudioFormats = map[string]AudioFormat{
	"mp3":  {Ext: ".mp3", Codec: "libmp3lame", Extra: []string{"-q:a", "2"}},
	"aac":  {Ext: ".aac", Codec: "aac", Extra: []string{"-b:a", "192k"}},
	"flac": {Ext: ".flac", Codec: "flac"},
	"wav":  {Ext: ".wav", Codec: "pcm_s16le"},
}

// AudioExtractJob pulls the audio track out of a video.
type AudioExtractJob struct {
	InputPath  string
	OutputPath string
	Format     string // mp3, aac, flac, wav
}

func (j *AudioExtractJob) Validate() error {
	if j.InputPath == "" {
		return validationErrorf("input path", "must not be empty")
	}
	if j.OutputPath == "" {
		return validationErrorf("output path", "must not be empty")
	}
	if _, ok := AudioFormats[j.Format]; !ok {
		return validationErrorf("audio format", "unsupported format %q", j.Format)
	}
	return nil
}

// BuildAudioExtract produces arguments for audio extraction.
func BuildAudioExtract(job *AudioExtractJob) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	fmtSpec := AudioFormats[job.Format]
	args := []string{
		"-hide_banner", "-y",
		"-i", job.InputPath,
		"-vn",
		"-c:a", fmtSpec.Codec,
	}
	args = append(args, fmtSpec.Extra...)
	args = append(args, job.OutputPath)
	return args, nil
}
