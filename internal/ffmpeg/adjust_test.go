package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ffmpeg-toolkit/internal/encoder"
)

func adjustJob() AdjustJob {
	return AdjustJob{
		InputPath:  "/in/a.mp4",
		OutputPath: "/out/a.mp4",
		Codec:      encoder.CodecH264,
		Width:      1280,
		Height:     720,
	}
}

func TestBuildAdjustScaleAndRotate(t *testing.T) {
	job := adjustJob()
	job.Rotation = 90
	job.CRF = 22

	args, err := BuildAdjustWith(&job, encoder.EncoderH264CPU)
	require.NoError(t, err)

	want := []string{
		"-hide_banner", "-y",
		"-i", "/in/a.mp4",
		"-vf", "scale=1280:720,transpose=1",
		"-c:v", "libx264",
		"-preset", "medium",
		"-crf", "22",
		"-c:a", "copy",
		"/out/a.mp4",
	}
	assert.Equal(t, want, args)
}

func TestBuildAdjustRotationFilters(t *testing.T) {
	tests := []struct {
		rotation int
		wantVF   string
	}{
		{90, "transpose=1"},
		{180, "transpose=1,transpose=1"},
		{270, "transpose=2"},
	}
	for _, tt := range tests {
		job := AdjustJob{
			InputPath:  "/in/a.mp4",
			OutputPath: "/out/a.mp4",
			Codec:      encoder.CodecH264,
			Rotation:   tt.rotation,
		}
		args, err := BuildAdjustWith(&job, encoder.EncoderH264CPU)
		require.NoError(t, err)
		assert.Equal(t, tt.wantVF, argAfter(t, args, "-vf"))
	}
}

func TestBuildAdjustAspectPreserved(t *testing.T) {
	job := adjustJob()
	job.Height = 0

	args, err := BuildAdjustWith(&job, encoder.EncoderH264NVENC)
	require.NoError(t, err)
	assert.Equal(t, "scale=1280:-2", argAfter(t, args, "-vf"))
	assert.Contains(t, args, "-cq")

	job = adjustJob()
	job.Width = 0
	args, err = BuildAdjustWith(&job, encoder.EncoderH264CPU)
	require.NoError(t, err)
	assert.Equal(t, "scale=-2:720", argAfter(t, args, "-vf"))
}

func TestAdjustJobValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*AdjustJob)
		wantField string
	}{
		{"valid", func(j *AdjustJob) {}, ""},
		{"rotation only", func(j *AdjustJob) { j.Width, j.Height, j.Rotation = 0, 0, 180 }, ""},
		{"empty input", func(j *AdjustJob) { j.InputPath = "" }, "input path"},
		{"output equals input", func(j *AdjustJob) { j.OutputPath = j.InputPath }, "output path"},
		{"bad codec", func(j *AdjustJob) { j.Codec = "vp9" }, "codec"},
		{"negative width", func(j *AdjustJob) { j.Width = -1 }, "width"},
		{"negative height", func(j *AdjustJob) { j.Height = -1 }, "height"},
		{"bad rotation", func(j *AdjustJob) { j.Rotation = 45 }, "rotation"},
		{"nothing to do", func(j *AdjustJob) { j.Width, j.Height = 0, 0 }, "adjustment"},
		{"conflicting encoder policy", func(j *AdjustJob) { j.ForceCPU = true; j.RequireGPU = true }, "encoder policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := adjustJob()
			tt.mutate(&job)

			err := job.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}
