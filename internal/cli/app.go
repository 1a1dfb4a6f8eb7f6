package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ffmpeg-toolkit/internal/config"
	"ffmpeg-toolkit/internal/encoder"
	"ffmpeg-toolkit/internal/mediainfo"
	"ffmpeg-toolkit/internal/monitor"
	"ffmpeg-toolkit/internal/notify"
	"ffmpeg-toolkit/internal/runner"
	"ffmpeg-toolkit/internal/toolkit"
	"ffmpeg-toolkit/pkg/models"
)

// app wires the shared services every subcommand needs.
type app struct {
	cfg      *config.Config
	tk       *toolkit.Toolkit
	probe    *encoder.Probe
	info     *mediainfo.Reader
	mon      *monitor.SystemMonitor
	notifier *notify.Notifier
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	probe, err := encoder.NewProbe(cfg.FFmpegPath)
	if err != nil {
		return nil, err
	}
	info, err := mediainfo.NewReader(cfg.FFprobePath)
	if err != nil {
		return nil, err
	}

	run := runner.New(cfg.StderrTailKB)
	timeout := time.Duration(cfg.JobTimeoutSec) * time.Second

	return &app{
		cfg:      cfg,
		tk:       toolkit.New(run, probe, info, cfg.FFmpegPath, timeout),
		probe:    probe,
		info:     info,
		mon:      monitor.NewSystemMonitor(),
		notifier: notify.New(cfg.WebhookURL),
	}, nil
}

// runOptions builds the console output hooks shared by all subcommands.
func (a *app) runOptions(verbose bool) toolkit.RunOptions {
	if a.cfg.LogLevel == "debug" {
		verbose = true
	}
	opts := toolkit.RunOptions{
		OnProgress: func(p models.JobProgress) {
			fmt.Fprintf(os.Stderr, "\rprogress: %5.1f%%  fps: %.0f ", p.Percent, p.FPS)
		},
	}
	if verbose {
		opts.Sink = runner.SinkFunc(func(line string) {
			fmt.Fprintln(os.Stderr, line)
		})
		opts.OnProgress = nil
	} else {
		opts.Sink = runner.SinkFunc(func(line string) {
			// Keep encoder selection and fallback notices visible even
			// without -v; raw FFmpeg chatter stays hidden.
			if strings.HasPrefix(line, "Using ") || strings.HasPrefix(line, "Encoder ") {
				fmt.Fprintln(os.Stderr, line)
			}
		})
	}
	return opts
}

// report prints the terminal result, posts the webhook payload and maps
// the outcome to a process exit error.
func (a *app) report(ctx context.Context, operation string, res *toolkit.JobResult, inputPath, outputPath string) error {
	fmt.Fprintln(os.Stderr)

	payload := models.JobResultPayload{
		Operation:  operation,
		Status:     string(res.Status),
		Encoder:    res.Encoder,
		ExitCode:   res.ExitCode,
		InputPath:  inputPath,
		OutputPath: outputPath,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
	if res.Status != runner.StatusSuccess {
		payload.ErrorMsg = res.Tail
	}

	if a.notifier.Enabled() {
		if stats, err := a.mon.GetStats(ctx, outputPath); err == nil {
			payload.Hardware = &stats
		}
		if err := a.notifier.PostResult(ctx, payload); err != nil {
			log.Printf("Webhook notification failed: %v", err)
		}
	}

	switch res.Status {
	case runner.StatusSuccess:
		log.Printf("%s finished in %s -> %s", operation, res.Elapsed.Round(time.Millisecond), outputPath)
		return nil
	case runner.StatusTimedOut:
		return fmt.Errorf("%s timed out after %s", operation, res.Elapsed.Round(time.Second))
	case runner.StatusCancelled:
		return fmt.Errorf("%s cancelled", operation)
	default:
		return fmt.Errorf("%s failed (exit code %d):\n%s", operation, res.ExitCode, res.Tail)
	}
}

// warnIfBusy runs the preflight load check; a busy host only warns, it
// never refuses the job.
func (a *app) warnIfBusy(ctx context.Context, outputPath string) {
	stats, err := a.mon.GetStats(ctx, outputPath)
	if err != nil {
		return
	}
	if stats.IsBusy {
		log.Printf("Warning: system is busy (cpu %.0f%%, ram %.0f%%), encode may be slow",
			stats.CPUPercent, stats.RAMPercent)
	}
}
