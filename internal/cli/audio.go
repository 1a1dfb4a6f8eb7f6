package cli

import (
	"ffmpeg-toolkit/internal/ffmpeg"

	"github.com/spf13/cobra"
)

func newExtractAudioCmd() *cobra.Command {
	var job ffmpeg.AudioExtractJob

	cmd := &cobra.Command{
		Use:   "extract-audio",
		Short: "Extract the audio track from a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := ffmpeg.PreflightPaths(job.OutputPath, job.InputPath); err != nil {
				return err
			}

			res, err := a.tk.ExtractAudio(ctx, &job, a.runOptions(flagVerbose))
			if err != nil {
				return err
			}
			return a.report(ctx, "extract-audio", res, job.InputPath, job.OutputPath)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&job.InputPath, "input", "i", "", "input video file")
	f.StringVarP(&job.OutputPath, "output", "o", "", "output audio file")
	f.StringVar(&job.Format, "format", "mp3", "audio format (mp3|aac|flac|wav)")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}
