package toolkit

import (
	"context"
	"fmt"
	"time"

	"ffmpeg-toolkit/internal/encoder"
	"ffmpeg-toolkit/internal/ffmpeg"
	"ffmpeg-toolkit/internal/mediainfo"
	"ffmpeg-toolkit/internal/runner"
	"ffmpeg-toolkit/pkg/models"
)

// CommandRunner is the slice of the process supervisor the feature layer
// needs. Satisfied by *runner.Runner; tests substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, req runner.Request) (*runner.Result, error)
}

// EncoderProbe resolves the encoding path for a codec. Satisfied by
// *encoder.Probe.
type EncoderProbe interface {
	Choose(ctx context.Context, codec encoder.Codec, forceCPU bool) (encoder.Choice, error)
	Require(ctx context.Context, codec encoder.Codec) (encoder.Choice, error)
}

// MediaReader reads input metadata. Satisfied by *mediainfo.Reader.
type MediaReader interface {
	Read(ctx context.Context, path string) (*mediainfo.Info, error)
}

// RunOptions carries the caller-supplied output hooks for one job.
// Both are optional.
type RunOptions struct {
	Sink       runner.LogSink
	OnProgress func(models.JobProgress)
}

func (o RunOptions) log(format string, args ...any) {
	if o.Sink != nil {
		o.Sink.Line(fmt.Sprintf(format, args...))
	}
}

// JobResult is a supervisor result plus the encoder that actually
// produced the output (empty for operations that don't encode video).
type JobResult struct {
	*runner.Result
	Encoder string
}

// Toolkit bundles the probe, the metadata reader and the supervisor into
// the operation surface: burn, convert, trim, screenshot, extract.
type Toolkit struct {
	runner     CommandRunner
	probe      EncoderProbe
	info       MediaReader
	ffmpegPath string
	timeout    time.Duration
}

// New wires the toolkit together. timeout bounds every individual FFmpeg
// run; zero disables the bound.
func New(r CommandRunner, probe EncoderProbe, info MediaReader, ffmpegPath string, timeout time.Duration) *Toolkit {
	return &Toolkit{
		runner:     r,
		probe:      probe,
		info:       info,
		ffmpegPath: ffmpegPath,
		timeout:    timeout,
	}
}

// choose resolves the encoder policy for a codec before any process runs.
func (t *Toolkit) choose(ctx context.Context, codec encoder.Codec, forceCPU, requireGPU bool) (encoder.Choice, error) {
	if requireGPU {
		return t.probe.Require(ctx, codec)
	}
	return t.probe.Choose(ctx, codec, forceCPU)
}

// runWithFallback executes the command for each encoder candidate in
// order. Only an NVENC-classified failure moves on to the next candidate;
// any other outcome (including timeout and cancellation) is final.
func (t *Toolkit) runWithFallback(
	ctx context.Context,
	candidates []string,
	build func(encoderName string) ([]string, error),
	durationSec float64,
	opts RunOptions,
) (*JobResult, error) {
	var last *JobResult
	for i, name := range candidates {
		args, err := build(name)
		if err != nil {
			return nil, err
		}

		res, err := t.runner.Run(ctx, runner.Request{
			Path:        t.ffmpegPath,
			Args:        args,
			Timeout:     t.timeout,
			DurationSec: durationSec,
			Sink:        opts.Sink,
			OnProgress:  opts.OnProgress,
		})
		if err != nil {
			return nil, err
		}

		last = &JobResult{Result: res, Encoder: name}
		if res.Status != runner.StatusFailure {
			return last, nil
		}
		if i+1 < len(candidates) && encoder.ShouldFallback(res.Tail) {
			opts.log("Encoder %s failed, falling back to %s", name, candidates[i+1])
			continue
		}
		return last, nil
	}
	return last, nil
}

// inspect probes the input for duration and resolution. Probe failures are
// not fatal: the job still runs, just without progress percentages or
// original_size scaling.
func (t *Toolkit) inspect(ctx context.Context, path string, opts RunOptions) (durationSec float64, videoSize string) {
	info, err := t.info.Read(ctx, path)
	if err != nil {
		opts.log("Input probe failed (%v), continuing without metadata", err)
		return 0, ""
	}
	return info.Duration, info.VideoSize()
}

// Burn burns the job's subtitle file into the video. The effective
// encoder is reported through the sink before the run starts, so a CPU
// fallback is never silent.
func (t *Toolkit) Burn(ctx context.Context, job *ffmpeg.EncodingJob, opts RunOptions) (*JobResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	choice, err := t.choose(ctx, job.Codec, job.ForceCPU, job.RequireGPU)
	if err != nil {
		return nil, err
	}
	opts.log("Using %s encoder: %s", choice.Tag, choice.Name)

	durationSec, videoSize := t.inspect(ctx, job.InputPath, opts)
	j := *job
	if j.OriginalSize == "" {
		j.OriginalSize = videoSize
	}

	return t.runWithFallback(ctx,
		encoder.Candidates(job.Codec, choice),
		func(name string) ([]string, error) { return ffmpeg.BuildBurnWith(&j, name) },
		durationSec, opts)
}

// Convert re-encodes the input to the requested codec.
func (t *Toolkit) Convert(ctx context.Context, job *ffmpeg.ConvertJob, opts RunOptions) (*JobResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	choice, err := t.choose(ctx, job.Codec, job.ForceCPU, job.RequireGPU)
	if err != nil {
		return nil, err
	}
	opts.log("Using %s encoder: %s", choice.Tag, choice.Name)

	durationSec, _ := t.inspect(ctx, job.InputPath, opts)

	return t.runWithFallback(ctx,
		encoder.Candidates(job.Codec, choice),
		func(name string) ([]string, error) { return ffmpeg.BuildConvertWith(job, name) },
		durationSec, opts)
}

// Adjust rescales and/or rotates the input.
func (t *Toolkit) Adjust(ctx context.Context, job *ffmpeg.AdjustJob, opts RunOptions) (*JobResult, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	choice, err := t.choose(ctx, job.Codec, job.ForceCPU, job.RequireGPU)
	if err != nil {
		return nil, err
	}
	opts.log("Using %s encoder: %s", choice.Tag, choice.Name)

	durationSec, _ := t.inspect(ctx, job.InputPath, opts)

	return t.runWithFallback(ctx,
		encoder.Candidates(job.Codec, choice),
		func(name string) ([]string, error) { return ffmpeg.BuildAdjustWith(job, name) },
		durationSec, opts)
}

// Trim cuts a segment out of the input.
func (t *Toolkit) Trim(ctx context.Context, job *ffmpeg.TrimJob, opts RunOptions) (*JobResult, error) {
	args, err := ffmpeg.BuildTrim(job)
	if err != nil {
		return nil, err
	}
	return t.runPlain(ctx, args, opts)
}

// Screenshot captures a single frame.
func (t *Toolkit) Screenshot(ctx context.Context, job *ffmpeg.ScreenshotJob, opts RunOptions) (*JobResult, error) {
	args, err := ffmpeg.BuildScreenshot(job)
	if err != nil {
		return nil, err
	}
	return t.runPlain(ctx, args, opts)
}

// ScreenshotBatch captures one frame every job.Interval seconds.
func (t *Toolkit) ScreenshotBatch(ctx context.Context, job *ffmpeg.BatchScreenshotJob, opts RunOptions) (*JobResult, error) {
	args, err := ffmpeg.BuildBatchScreenshot(job)
	if err != nil {
		return nil, err
	}
	return t.runPlain(ctx, args, opts)
}

// ExtractAudio pulls the audio track out of the input.
func (t *Toolkit) ExtractAudio(ctx context.Context, job *ffmpeg.AudioExtractJob, opts RunOptions) (*JobResult, error) {
	args, err := ffmpeg.BuildAudioExtract(job)
	if err != nil {
		return nil, err
	}
	return t.runPlain(ctx, args, opts)
}

func (t *Toolkit) runPlain(ctx context.Context, args []string, opts RunOptions) (*JobResult, error) {
	res, err := t.runner.Run(ctx, runner.Request{
		Path:    t.ffmpegPath,
		Args:    args,
		Timeout: t.timeout,
		Sink:    opts.Sink,
	})
	if err != nil {
		return nil, err
	}
	return &JobResult{Result: res}, nil
}
