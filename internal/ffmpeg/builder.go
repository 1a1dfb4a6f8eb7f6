package ffmpeg

import (
	"strconv"
	"strings"

	"ffmpeg-toolkit/internal/encoder"
)

// defaultQuality returns the quality value used when the job leaves CRF at
// zero. NVENC takes -cq, software encoders -crf; H.265 tolerates a higher
// CRF at equal perceived quality.
func defaultQuality(encoderName string) int {
	switch {
	case isNVENC(encoderName):
		return 20
	case encoderName == encoder.EncoderH265CPU:
		return 28
	default:
		return 23
	}
}

func isNVENC(encoderName string) bool {
	return strings.HasSuffix(encoderName, "_nvenc")
}

// qualityArgs maps a job CRF onto the encoder's quality flag.
func qualityArgs(encoderName string, crf int) []string {
	q := crf
	if q == 0 {
		q = defaultQuality(encoderName)
	}
	flag := "-crf"
	if isNVENC(encoderName) {
		flag = "-cq"
	}
	return []string{flag, strconv.Itoa(q)}
}

func presetOrDefault(preset string) string {
	if preset == "" {
		return "medium"
	}
	return preset
}

// BuildBurn produces the FFmpeg argument list for burning subtitles into a
// video with the probed encoder choice. Pure and deterministic: the same
// job and choice always yield the same token sequence.
func BuildBurn(job *EncodingJob, choice encoder.Choice) ([]string, error) {
	return BuildBurnWith(job, choice.Name)
}

// BuildBurnWith is BuildBurn for an explicit encoder name. The fallback
// loop uses it to rebuild the command for each encoder candidate.
func BuildBurnWith(job *EncodingJob, encoderName string) ([]string, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	var vf strings.Builder
	vf.WriteString("subtitles=")
	vf.WriteString(EscapeFilterValue(job.SubtitlePath))
	vf.WriteString(":force_style=")
	vf.WriteString(EscapeFilterValue(BuildForceStyle(job.Style)))
	if job.OriginalSize != "" {
		vf.WriteString(":original_size=")
		vf.WriteString(job.OriginalSize)
	}

	args := []string{
		"-hide_banner",
		"-y",
		"-i", job.InputPath,
		"-vf", vf.String(),
		"-c:v", encoderName,
		"-preset", presetOrDefault(job.Preset),
	}
	args = append(args, qualityArgs(encoderName, job.CRF)...)
	args = append(args,
		"-c:a", "copy",
		job.OutputPath,
	)
	return args, nil
}
