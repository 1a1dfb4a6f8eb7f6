package cli

import (
	"ffmpeg-toolkit/internal/encoder"
	"ffmpeg-toolkit/internal/ffmpeg"

	"github.com/spf13/cobra"
)

func newBurnCmd() *cobra.Command {
	job := ffmpeg.EncodingJob{Style: ffmpeg.DefaultStyle()}
	var (
		codec  string
		border string
	)

	cmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn a subtitle file into a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			job.Codec = encoder.Codec(codec)
			job.Style.Border = ffmpeg.BorderStyle(border)
			if !a.cfg.EnableHWAccel {
				job.ForceCPU = true
			}
			if err := ffmpeg.PreflightPaths(job.OutputPath, job.InputPath, job.SubtitlePath); err != nil {
				return err
			}

			a.warnIfBusy(ctx, job.OutputPath)
			res, err := a.tk.Burn(ctx, &job, a.runOptions(flagVerbose))
			if err != nil {
				return err
			}
			return a.report(ctx, "burn", res, job.InputPath, job.OutputPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&job.InputPath, "input", "i", "", "input video file")
	f.StringVarP(&job.SubtitlePath, "subtitles", "s", "", "subtitle file (srt/ass)")
	f.StringVarP(&job.OutputPath, "output", "o", "", "output video file")
	f.StringVar(&codec, "codec", string(encoder.CodecH264), "video codec (h264|h265)")
	f.StringVar(&job.Preset, "preset", "medium", "encoder preset")
	f.IntVar(&job.CRF, "quality", 0, "quality (CRF/CQ, 0 uses the encoder default)")
	f.BoolVar(&job.ForceCPU, "force-cpu", false, "skip GPU detection and encode on CPU")
	f.BoolVar(&job.RequireGPU, "require-gpu", false, "fail instead of falling back to CPU")

	f.StringVar(&job.Style.FontName, "font", job.Style.FontName, "subtitle font name")
	f.IntVar(&job.Style.FontSize, "font-size", job.Style.FontSize, "subtitle font size")
	f.StringVar(&job.Style.PrimaryColor, "color", job.Style.PrimaryColor, "text color (&HAABBGGRR)")
	f.StringVar(&job.Style.OutlineColor, "outline-color", job.Style.OutlineColor, "outline color (&HAABBGGRR)")
	f.StringVar(&border, "border", string(ffmpeg.BorderOutline), "border style (none|outline|shadow|translucent-box)")
	f.IntVar(&job.Style.Opacity, "opacity", job.Style.Opacity, "box opacity percent (0 transparent, 100 opaque)")
	f.IntVar(&job.Style.OffsetX, "offset-x", job.Style.OffsetX, "horizontal offset in pixels")
	f.IntVar(&job.Style.OffsetY, "offset-y", job.Style.OffsetY, "vertical offset in pixels (negative moves up)")
	f.IntVar(&job.Style.Margin, "margin", job.Style.Margin, "bottom margin in pixels")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("subtitles")
	cmd.MarkFlagRequired("output")
	return cmd
}
