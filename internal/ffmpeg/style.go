package ffmpeg

import (
	"fmt"
	"strings"
)

// ASS border parameters derived from a BorderStyle. BorderStyle 1 draws an
// outline, 3 a filled box behind the text, 4 a drop shadow.
type borderParams struct {
	borderStyle int
	outline     int
	shadow      int
}

var borderTable = map[BorderStyle]borderParams{
	BorderNone:           {borderStyle: 0, outline: 0, shadow: 0},
	BorderOutline:        {borderStyle: 1, outline: 1, shadow: 0},
	BorderShadow:         {borderStyle: 4, outline: 0, shadow: 2},
	BorderTranslucentBox: {borderStyle: 3, outline: 1, shadow: 0},
}

// backColor converts a background opacity percentage into an ASS
// &HAABBGGRR color on black. ASS alpha is inverted: 0x00 is opaque,
// 0xff fully transparent.
func backColor(opacity int) string {
	alpha := (100 - opacity) * 255 / 100
	return fmt.Sprintf("&H%02x000000", alpha)
}

// BuildForceStyle renders the style bundle into the ASS force_style
// sub-language understood by the subtitles filter. The field order is
// fixed so identical styles always produce identical strings.
func BuildForceStyle(s SubtitleStyle) string {
	primary := s.PrimaryColor
	if primary == "" {
		primary = "&H00FFFFFF"
	}
	outlineColor := s.OutlineColor
	if outlineColor == "" {
		outlineColor = "&H00000000"
	}
	border := borderTable[s.Border]

	// Vertical placement: with bottom-center alignment a larger MarginV
	// lifts the text, so a negative (upward) offset adds to the margin.
	// Never below zero: the renderer treats negative margins as garbage.
	marginV := s.Margin - s.OffsetY
	if marginV < 0 {
		marginV = 0
	}
	marginL := max(0, s.OffsetX)
	marginR := max(0, -s.OffsetX)

	fields := []string{
		"Fontname=" + s.FontName,
		fmt.Sprintf("Fontsize=%d", s.FontSize),
		"PrimaryColour=" + primary,
		"OutlineColour=" + outlineColor,
		"BackColour=" + backColor(s.Opacity),
		fmt.Sprintf("BorderStyle=%d", border.borderStyle),
		fmt.Sprintf("Outline=%d", border.outline),
		fmt.Sprintf("Shadow=%d", border.shadow),
		fmt.Sprintf("MarginL=%d", marginL),
		fmt.Sprintf("MarginR=%d", marginR),
		fmt.Sprintf("MarginV=%d", marginV),
		"Alignment=2", // bottom center
	}
	return strings.Join(fields, ",")
}
