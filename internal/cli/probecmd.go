package cli

import (
	"fmt"

	"ffmpeg-toolkit/internal/encoder"

	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report which hardware encoders are usable on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flagConfig)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if a.probe.HasNVENC(ctx) {
				fmt.Println("NVENC: available")
			} else {
				fmt.Println("NVENC: not available")
			}
			for _, codec := range []encoder.Codec{encoder.CodecH264, encoder.CodecH265} {
				choice, err := a.probe.Choose(ctx, codec, !a.cfg.EnableHWAccel)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s (%s)\n", codec, choice.Name, choice.Tag)
			}
			return nil
		},
	}
}
