package mediainfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// probeTimeout bounds a single ffprobe invocation; probing is metadata
// only and should never take long on a healthy file.
const probeTimeout = 30 * time.Second

// Stream describes one stream inside a media container.
type Stream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	FrameRate  string `json:"r_frame_rate"`
}

// Info is the typed result of probing a media file.
type Info struct {
	FormatName string
	Duration   float64 // seconds
	Size       int64   // bytes
	BitRate    int64   // bits per second
	Streams    []Stream
}

// Reader reads media metadata by shelling out to ffprobe.
type Reader struct {
	ffprobePath string
}

// NewReader creates a reader for the given ffprobe binary, resolved
// through PATH if a bare name is given.
func NewReader(ffprobePath string) (*Reader, error) {
	path, err := exec.LookPath(ffprobePath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe binary not found: %w", err)
	}
	return &Reader{ffprobePath: path}, nil
}

// Read probes a media file and returns its typed metadata.
func (r *Reader) Read(ctx context.Context, path string) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w - %s", err, tailOf(stderr.String(), 200))
	}
	return parseProbeOutput(stdout.Bytes())
}

// parseProbeOutput decodes ffprobe's JSON document into an Info.
func parseProbeOutput(data []byte) (*Info, error) {
	var doc struct {
		Format struct {
			FormatLongName string `json:"format_long_name"`
			Duration       string `json:"duration"`
			Size           string `json:"size"`
			BitRate        string `json:"bit_rate"`
		} `json:"format"`
		Streams []Stream `json:"streams"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{
		FormatName: doc.Format.FormatLongName,
		Streams:    doc.Streams,
	}
	info.Duration, _ = strconv.ParseFloat(doc.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(doc.Format.Size, 10, 64)
	info.BitRate, _ = strconv.ParseInt(doc.Format.BitRate, 10, 64)
	return info, nil
}

// VideoSize returns the resolution of the first video stream as "WxH",
// or "" when the file has no video stream with known dimensions.
func (i *Info) VideoSize() string {
	for _, s := range i.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			return fmt.Sprintf("%dx%d", s.Width, s.Height)
		}
	}
	return ""
}

// Format renders the info for human display.
func (i *Info) Format() string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Format: %s", i.FormatName))

	minutes, seconds := int(i.Duration)/60, i.Duration-float64(int(i.Duration)/60*60)
	hours, minutes := minutes/60, minutes%60
	lines = append(lines, fmt.Sprintf("Duration: %02d:%02d:%05.2f", hours, minutes, seconds))
	lines = append(lines, fmt.Sprintf("Size: %.2f MB", float64(i.Size)/(1024*1024)))
	lines = append(lines, fmt.Sprintf("Bitrate: %.0f kbps", float64(i.BitRate)/1000))
	lines = append(lines, "")

	for idx, s := range i.Streams {
		switch s.CodecType {
		case "video":
			lines = append(lines, fmt.Sprintf("Video stream #%d: %s | %dx%d | %s fps",
				idx, s.CodecName, s.Width, s.Height, formatFrameRate(s.FrameRate)))
		case "audio":
			lines = append(lines, fmt.Sprintf("Audio stream #%d: %s | %s Hz | %d ch",
				idx, s.CodecName, s.SampleRate, s.Channels))
		case "subtitle":
			lines = append(lines, fmt.Sprintf("Subtitle stream #%d: %s", idx, s.CodecName))
		default:
			lines = append(lines, fmt.Sprintf("Stream #%d: %s / %s", idx, s.CodecType, s.CodecName))
		}
	}
	return strings.Join(lines, "\n")
}

// formatFrameRate turns ffprobe's "num/den" rational into a decimal.
func formatFrameRate(r string) string {
	num, den, found := strings.Cut(r, "/")
	if !found {
		return r
	}
	n, err1 := strconv.Atoi(num)
	d, err2 := strconv.Atoi(den)
	if err1 != nil || err2 != nil || d == 0 {
		return r
	}
	v := math.Round(float64(n)/float64(d)*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func tailOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
