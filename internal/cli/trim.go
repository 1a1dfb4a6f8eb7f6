package cli

import (
	"ffmpeg-toolkit/internal/ffmpeg"

	"github.com/spf13/cobra"
)

func newTrimCmd() *cobra.Command {
	var job ffmpeg.TrimJob

	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Cut a segment out of a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := ffmpeg.PreflightPaths(job.OutputPath, job.InputPath); err != nil {
				return err
			}

			res, err := a.tk.Trim(ctx, &job, a.runOptions(flagVerbose))
			if err != nil {
				return err
			}
			return a.report(ctx, "trim", res, job.InputPath, job.OutputPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&job.InputPath, "input", "i", "", "input video file")
	f.StringVarP(&job.OutputPath, "output", "o", "", "output video file")
	f.StringVar(&job.Start, "start", "", "start time (HH:MM:SS or seconds)")
	f.StringVar(&job.End, "end", "", "end time (HH:MM:SS or seconds)")
	f.BoolVar(&job.CopyMode, "copy", true, "stream copy instead of re-encoding")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
