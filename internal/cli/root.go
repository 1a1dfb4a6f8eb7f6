package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagConfig  string
	flagVerbose bool
)

// NewRootCmd assembles the toolkit command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "toolkit",
		Short:        "FFmpeg toolkit for subtitle burning, conversion and media inspection",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "config.yml", "path to config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "stream full FFmpeg output")

	// Accept underscore spellings (--offset_y) for the dashed flag names.
	root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	root.AddCommand(
		newBurnCmd(),
		newConvertCmd(),
		newAdjustCmd(),
		newTrimCmd(),
		newScreenshotCmd(),
		newExtractAudioCmd(),
		newInfoCmd(),
		newProbeCmd(),
	)
	return root
}

// Execute runs the root command with a signal-aware context so that an
// interrupt kills the FFmpeg process group and reports a cancelled job.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
