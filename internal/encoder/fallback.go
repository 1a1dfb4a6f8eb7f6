package encoder

import (
	"regexp"
	"strings"
)

// nvencErrorPatterns match FFmpeg stderr produced when NVENC fails at
// runtime: missing driver library, no capable device, or a format the
// hardware encoder cannot take. Any of these means the job is worth
// retrying on the CPU path; anything else (bad input, disk full) is not.
var nvencErrorPatterns = []string{
	`Cannot load.*nvEncodeAPI`,
	`No NVENC capable devices found`,
	`Invalid encoder`,
	`Unknown encoder.*nvenc`,
	`Impossible to convert between the formats`,
	`Error initializing`,
	`nvenc.*not available`,
}

var nvencErrorRegex = regexp.MustCompile(`(?i)` + strings.Join(nvencErrorPatterns, "|"))

// ShouldFallback reports whether an FFmpeg error message indicates an
// NVENC failure that justifies retrying the same job with a CPU encoder.
func ShouldFallback(errorMessage string) bool {
	return nvencErrorRegex.MatchString(errorMessage)
}

// Candidates returns the encoder names to attempt in order for a choice.
// A GPU choice carries the CPU encoder as a runtime fallback; a CPU choice
// has nothing to fall back to.
func Candidates(codec Codec, choice Choice) []string {
	if choice.Tag != TagGPU {
		return []string{choice.Name}
	}
	cpuName, err := CPUEncoderFor(codec)
	if err != nil {
		return []string{choice.Name}
	}
	return []string{choice.Name, cpuName}
}
