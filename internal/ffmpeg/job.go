package ffmpeg

import (
	"fmt"
	"regexp"

	"ffmpeg-toolkit/internal/encoder"
)

// BorderStyle selects how subtitle text is set off from the video.
type BorderStyle string

const (
	BorderNone           BorderStyle = "none"
	BorderOutline        BorderStyle = "outline"
	BorderShadow         BorderStyle = "shadow"
	BorderTranslucentBox BorderStyle = "translucent-box"
)

// Presets accepted by both libx264/libx265 and NVENC.
var validPresets = map[string]bool{
	"ultrafast": true,
	"superfast": true,
	"veryfast":  true,
	"faster":    true,
	"fast":      true,
	"medium":    true,
	"slow":      true,
	"slower":    true,
	"veryslow":  true,
}

// assColorRegex matches ASS &HAABBGGRR color strings.
var assColorRegex = regexp.MustCompile(`^&H[0-9A-Fa-f]{8}$`)

// SubtitleStyle configures the rendered look of burned-in subtitles.
// Colors use the ASS &HAABBGGRR encoding (BGR order, alpha first).
type SubtitleStyle struct {
	FontName     string
	FontSize     int // 10-72
	PrimaryColor string
	OutlineColor string
	Border       BorderStyle
	Opacity      int // background opacity, 0 (transparent) - 100 (opaque)
	OffsetX      int // -200..200, positive shifts right
	OffsetY      int // -200..200, negative shifts up
	Margin       int // base bottom margin, 0-100
}

// DefaultStyle returns the style used when the caller specifies nothing.
func DefaultStyle() SubtitleStyle {
	return SubtitleStyle{
		FontName:     "Arial",
		FontSize:     24,
		PrimaryColor: "&H00FFFFFF", // white
		OutlineColor: "&H00000000", // black
		Border:       BorderOutline,
		Opacity:      50,
		Margin:       20,
	}
}

// EncodingJob is the immutable description of one subtitle burn-in request.
type EncodingJob struct {
	InputPath    string
	SubtitlePath string
	OutputPath   string
	Codec        encoder.Codec
	Preset       string
	CRF          int // 0 = encoder default
	ForceCPU     bool // never touch the GPU, even when available
	RequireGPU   bool // fail up front instead of falling back to CPU
	Style        SubtitleStyle

	// Detected source resolution ("1920x1080"), passed to the subtitles
	// filter as original_size so ASS positioning scales correctly.
	// Optional; set by the caller after probing the input.
	OriginalSize string
}

// ValidationError reports a job parameter that is out of range or
// inconsistent. Values are never clamped silently: clamping would produce
// a result the user did not ask for.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErrorf(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks every job parameter before any process is spawned.
func (j *EncodingJob) Validate() error {
	if j.InputPath == "" {
		return validationErrorf("input path", "must not be empty")
	}
	if j.SubtitlePath == "" {
		return validationErrorf("subtitle path", "must not be empty")
	}
	if j.OutputPath == "" {
		return validationErrorf("output path", "must not be empty")
	}
	if j.OutputPath == j.InputPath {
		return validationErrorf("output path", "must differ from input path")
	}
	if j.Codec != encoder.CodecH264 && j.Codec != encoder.CodecH265 {
		return validationErrorf("codec", "unsupported codec %q", j.Codec)
	}
	if j.Preset != "" && !validPresets[j.Preset] {
		return validationErrorf("preset", "unknown preset %q", j.Preset)
	}
	if j.CRF < 0 || j.CRF > 51 {
		return validationErrorf("crf", "%d outside 0-51", j.CRF)
	}
	if j.ForceCPU && j.RequireGPU {
		return validationErrorf("encoder policy", "force-cpu and require-gpu are mutually exclusive")
	}
	return j.Style.Validate()
}

// Validate checks the style bundle ranges.
func (s *SubtitleStyle) Validate() error {
	if s.FontName == "" {
		return validationErrorf("font name", "must not be empty")
	}
	if s.FontSize < 10 || s.FontSize > 72 {
		return validationErrorf("font size", "%d outside 10-72", s.FontSize)
	}
	if s.PrimaryColor != "" && !assColorRegex.MatchString(s.PrimaryColor) {
		return validationErrorf("primary color", "%q is not an &HAABBGGRR color", s.PrimaryColor)
	}
	if s.OutlineColor != "" && !assColorRegex.MatchString(s.OutlineColor) {
		return validationErrorf("outline color", "%q is not an &HAABBGGRR color", s.OutlineColor)
	}
	switch s.Border {
	case BorderNone, BorderOutline, BorderShadow, BorderTranslucentBox:
	default:
		return validationErrorf("border style", "unknown border style %q", s.Border)
	}
	if s.Opacity < 0 || s.Opacity > 100 {
		return validationErrorf("opacity", "%d outside 0-100", s.Opacity)
	}
	if s.OffsetX < -200 || s.OffsetX > 200 {
		return validationErrorf("offset x", "%d outside -200..200", s.OffsetX)
	}
	if s.OffsetY < -200 || s.OffsetY > 200 {
		return validationErrorf("offset y", "%d outside -200..200", s.OffsetY)
	}
	if s.Margin < 0 || s.Margin > 100 {
		return validationErrorf("margin", "%d outside 0-100", s.Margin)
	}
	return nil
}
