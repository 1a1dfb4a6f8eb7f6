package ffmpeg

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// PreflightPaths verifies that every input file exists and the output
// directory is writable before any process is spawned. FFmpeg reports
// both conditions itself, but only after startup; catching them here
// turns a doomed run into a ValidationError.
func PreflightPaths(outputPath string, inputPaths ...string) error {
	for _, p := range inputPaths {
		info, err := os.Stat(p)
		if err != nil {
			return validationErrorf("input path", "%q does not exist", p)
		}
		if info.IsDir() {
			return validationErrorf("input path", "%q is a directory", p)
		}
	}

	dir := filepath.Dir(outputPath)
	info, err := os.Stat(dir)
	if err != nil {
		return validationErrorf("output path", "directory %q does not exist", dir)
	}
	if !info.IsDir() {
		return validationErrorf("output path", "%q is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return validationErrorf("output path", "directory %q is not writable", dir)
	}
	return nil
}
