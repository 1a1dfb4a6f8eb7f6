package cli

import (
	"ffmpeg-toolkit/internal/ffmpeg"
	"ffmpeg-toolkit/internal/toolkit"

	"github.com/spf13/cobra"
)

func newScreenshotCmd() *cobra.Command {
	var (
		inputPath  string
		outputPath string
		timestamp  string
		interval   int
		jpeg       bool
	)

	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Capture a frame, or one frame per interval, as images",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := ffmpeg.PreflightPaths(outputPath, inputPath); err != nil {
				return err
			}
			opts := a.runOptions(flagVerbose)

			var res *toolkit.JobResult
			if interval > 0 {
				job := ffmpeg.BatchScreenshotJob{
					InputPath:  inputPath,
					OutputPath: outputPath,
					Interval:   interval,
					JPEG:       jpeg,
				}
				r, err := a.tk.ScreenshotBatch(ctx, &job, opts)
				if err != nil {
					return err
				}
				res = r
			} else {
				job := ffmpeg.ScreenshotJob{
					InputPath:  inputPath,
					OutputPath: outputPath,
					Timestamp:  timestamp,
					JPEG:       jpeg,
				}
				r, err := a.tk.Screenshot(ctx, &job, opts)
				if err != nil {
					return err
				}
				res = r
			}
			return a.report(ctx, "screenshot", res, inputPath, outputPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&inputPath, "input", "i", "", "input video file")
	f.StringVarP(&outputPath, "output", "o", "", "output image file (use %04d in batch mode)")
	f.StringVar(&timestamp, "at", "0", "timestamp of the frame (HH:MM:SS or seconds)")
	f.IntVar(&interval, "every", 0, "capture one frame every N seconds instead of a single frame")
	f.BoolVar(&jpeg, "jpeg", false, "write JPEG instead of PNG")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
