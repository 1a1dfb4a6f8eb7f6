package cli

import (
	"ffmpeg-toolkit/internal/encoder"
	"ffmpeg-toolkit/internal/ffmpeg"

	"github.com/spf13/cobra"
)

func newAdjustCmd() *cobra.Command {
	var job ffmpeg.AdjustJob
	var codec string

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Rescale and/or rotate a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			job.Codec = encoder.Codec(codec)
			if !a.cfg.EnableHWAccel {
				job.ForceCPU = true
			}
			if err := ffmpeg.PreflightPaths(job.OutputPath, job.InputPath); err != nil {
				return err
			}

			a.warnIfBusy(ctx, job.OutputPath)
			res, err := a.tk.Adjust(ctx, &job, a.runOptions(flagVerbose))
			if err != nil {
				return err
			}
			return a.report(ctx, "adjust", res, job.InputPath, job.OutputPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&job.InputPath, "input", "i", "", "input video file")
	f.StringVarP(&job.OutputPath, "output", "o", "", "output video file")
	f.IntVar(&job.Width, "width", 0, "target width in pixels (0 keeps aspect from height)")
	f.IntVar(&job.Height, "height", 0, "target height in pixels (0 keeps aspect from width)")
	f.IntVar(&job.Rotation, "rotate", 0, "clockwise rotation in degrees (90|180|270)")
	f.StringVar(&codec, "codec", string(encoder.CodecH264), "video codec (h264|h265)")
	f.StringVar(&job.Preset, "preset", "medium", "encoder preset")
	f.IntVar(&job.CRF, "quality", 0, "quality (CRF/CQ, 0 uses the encoder default)")
	f.BoolVar(&job.ForceCPU, "force-cpu", false, "skip GPU detection and encode on CPU")
	f.BoolVar(&job.RequireGPU, "require-gpu", false, "fail instead of falling back to CPU")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
