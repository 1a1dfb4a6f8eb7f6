package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidTimeFormat(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"90", true},
		{"90.5", true},
		{"00:01:30", true},
		{"1:02:03.250", true},
		{"10:00:00", true},
		{"1:2:3", false},
		{"90s", false},
		{"-5", false},
		{"00:01", false},
		{"abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTimeFormat(tt.in))
		})
	}
}

func TestBuildTrimCopyMode(t *testing.T) {
	job := TrimJob{
		InputPath:  "/in/full.mp4",
		OutputPath: "/out/clip.mp4",
		Start:      "00:01:00",
		End:        "00:02:30",
		CopyMode:   true,
	}

	args, err := BuildTrim(&job)
	require.NoError(t, err)

	want := []string{
		"-hide_banner", "-y",
		"-i", "/in/full.mp4",
		"-ss", "00:01:00",
		"-to", "00:02:30",
		"-c", "copy",
		"/out/clip.mp4",
	}
	assert.Equal(t, want, args)
}

func TestBuildTrimReencode(t *testing.T) {
	job := TrimJob{
		InputPath:  "/in/full.mp4",
		OutputPath: "/out/clip.mp4",
		Start:      "30",
	}

	args, err := BuildTrim(&job)
	require.NoError(t, err)
	assert.Contains(t, args, "libx264")
	assert.Contains(t, args, "aac")
	assert.NotContains(t, args, "-to")
}

func TestBuildTrimRejectsBadTime(t *testing.T) {
	job := TrimJob{
		InputPath:  "/in/full.mp4",
		OutputPath: "/out/clip.mp4",
		Start:      "half past two",
	}
	_, err := BuildTrim(&job)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "start time", verr.Field)
}

func TestBuildScreenshot(t *testing.T) {
	job := ScreenshotJob{
		InputPath:  "/in/movie.mp4",
		OutputPath: "/out/frame.png",
		Timestamp:  "00:10:00",
	}

	args, err := BuildScreenshot(&job)
	require.NoError(t, err)

	want := []string{
		"-hide_banner", "-y",
		"-ss", "00:10:00",
		"-i", "/in/movie.mp4",
		"-frames:v", "1",
		"/out/frame.png",
	}
	assert.Equal(t, want, args)
}

func TestBuildScreenshotJPEG(t *testing.T) {
	job := ScreenshotJob{
		InputPath:  "/in/movie.mp4",
		OutputPath: "/out/frame.jpg",
		Timestamp:  "5",
		JPEG:       true,
	}

	args, err := BuildScreenshot(&job)
	require.NoError(t, err)
	assert.Contains(t, args, "mjpeg")
	assert.Contains(t, args, "-q:v")
}

func TestBuildBatchScreenshot(t *testing.T) {
	job := BatchScreenshotJob{
		InputPath:  "/in/movie.mp4",
		OutputPath: "/out/frame_%04d.png",
		Interval:   10,
	}

	args, err := BuildBatchScreenshot(&job)
	require.NoError(t, err)
	assert.Contains(t, args, "fps=1/10")
	assert.Equal(t, "/out/frame_%04d.png", args[len(args)-1])
}

func TestBuildBatchScreenshotRejectsZeroInterval(t *testing.T) {
	job := BatchScreenshotJob{
		InputPath:  "/in/movie.mp4",
		OutputPath: "/out/frame_%04d.png",
	}
	_, err := BuildBatchScreenshot(&job)
	assert.Error(t, err)
}

func TestBuildAudioExtract(t *testing.T) {
	tests := []struct {
		format    string
		wantCodec string
	}{
		{"mp3", "libmp3lame"},
		{"aac", "aac"},
		{"flac", "flac"},
		{"wav", "pcm_s16le"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			job := AudioExtractJob{
				InputPath:  "/in/movie.mp4",
				OutputPath: "/out/audio." + tt.format,
				Format:     tt.format,
			}

			args, err := BuildAudioExtract(&job)
			require.NoError(t, err)
			assert.Contains(t, args, "-vn")
			assert.Contains(t, args, tt.wantCodec)
		})
	}
}

func TestBuildAudioExtractRejectsUnknownFormat(t *testing.T) {
	job := AudioExtractJob{
		InputPath:  "/in/movie.mp4",
		OutputPath: "/out/audio.ogg",
		Format:     "ogg",
	}
	_, err := BuildAudioExtract(&job)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "audio format", verr.Field)
}
