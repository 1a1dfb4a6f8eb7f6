package runner

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ffmpeg-toolkit/pkg/models"
)

func TestRunSuccess(t *testing.T) {
	r := New(4)
	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c", "echo hello; echo world 1>&2"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Log, "hello")
	assert.Contains(t, res.Log, "world")
	assert.Greater(t, res.Elapsed, time.Duration(0))
}

func TestRunFailureExitCode(t *testing.T) {
	r := New(4)
	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c", "echo boom 1>&2; exit 3"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusFailure, res.Status)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Tail, "boom")
}

func TestRunTimeout(t *testing.T) {
	r := New(4)
	start := time.Now()
	res, err := r.Run(context.Background(), Request{
		Path:    "sh",
		Args:    []string{"-c", "echo $$; sleep 30"},
		Timeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusTimedOut, res.Status)
	assert.Less(t, time.Since(start), 5*time.Second)

	// The process must actually be gone, not just abandoned.
	pid, convErr := strconv.Atoi(strings.TrimSpace(strings.SplitN(res.Log, "\n", 2)[0]))
	require.NoError(t, convErr)
	assert.ErrorIs(t, syscall.Kill(pid, 0), syscall.ESRCH)
}

func TestRunCancelled(t *testing.T) {
	r := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	res, err := r.Run(ctx, Request{Path: "sleep", Args: []string{"30"}})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
}

func TestRunAlreadyCancelled(t *testing.T) {
	r := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, Request{Path: "sleep", Args: []string{"30"}})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
}

func TestRunStartFailure(t *testing.T) {
	r := New(4)
	_, err := r.Run(context.Background(), Request{Path: "/nonexistent/binary"})
	assert.Error(t, err)
}

func TestRunSinkReceivesOrderedLines(t *testing.T) {
	r := New(4)

	var mu sync.Mutex
	var lines []string
	sink := SinkFunc(func(s string) {
		mu.Lock()
		lines = append(lines, s)
		mu.Unlock()
	})

	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c", "echo one; echo two; echo three"},
		Sink: sink,
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestRunProgressParsing(t *testing.T) {
	r := New(4)

	var mu sync.Mutex
	var updates []models.JobProgress
	res, err := r.Run(context.Background(), Request{
		Path:        "sh",
		Args:        []string{"-c", `echo "frame=  100 fps= 25.0 time=00:00:30.00 speed=1.0x"`},
		DurationSec: 60,
		OnProgress: func(p models.JobProgress) {
			mu.Lock()
			updates = append(updates, p)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, updates, 1)
	assert.InDelta(t, 50.0, updates[0].Percent, 0.01)
	assert.InDelta(t, 25.0, updates[0].FPS, 0.01)
}

func TestRunProgressClampedAt100(t *testing.T) {
	r := New(4)

	var mu sync.Mutex
	var last models.JobProgress
	_, err := r.Run(context.Background(), Request{
		Path:        "sh",
		Args:        []string{"-c", `echo "time=00:02:00.00"`},
		DurationSec: 60,
		OnProgress: func(p models.JobProgress) {
			mu.Lock()
			last = p
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 100.0, last.Percent)
}

func TestRunTailBounded(t *testing.T) {
	r := New(1) // 1 KiB tail

	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c", "for i in $(seq 1 200); do echo line-$i-padding-padding-padding; done"},
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(res.Tail), 1024)
	assert.True(t, strings.HasSuffix(strings.TrimRight(res.Tail, "\n"), "line-200-padding-padding-padding"))
	assert.Greater(t, len(res.Log), len(res.Tail))
	// Tail is aligned to a line boundary.
	assert.True(t, strings.HasPrefix(res.Tail, "line-"))
}

func TestRunSplitsCarriageReturnLines(t *testing.T) {
	r := New(4)

	var mu sync.Mutex
	var lines []string
	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c", `printf 'one\rtwo\rthree\n'`},
		Sink: SinkFunc(func(s string) {
			mu.Lock()
			lines = append(lines, s)
			mu.Unlock()
		}),
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two", "three"}, lines)
}

func TestRunProgressArrivesDuringRun(t *testing.T) {
	r := New(4)

	var mu sync.Mutex
	var firstUpdate time.Time
	start := time.Now()
	res, err := r.Run(context.Background(), Request{
		Path:        "sh",
		Args:        []string{"-c", `printf 'time=00:00:10.00\r'; sleep 2; printf '\n'`},
		DurationSec: 40,
		OnProgress: func(p models.JobProgress) {
			mu.Lock()
			if firstUpdate.IsZero() {
				firstUpdate = time.Now()
			}
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, res.Status)

	mu.Lock()
	defer mu.Unlock()
	require.False(t, firstUpdate.IsZero())
	// The stats line ends with a bare \r; its update must land while the
	// process is still sleeping, not after it exits.
	assert.Less(t, firstUpdate.Sub(start), time.Second)
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Second)
}

func TestRunLongCarriageReturnStream(t *testing.T) {
	r := New(4)

	// Hundreds of KiB of \r-separated stats before the first newline, the
	// shape a long encode produces. The run must stay healthy to the end.
	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c",
			`i=0; while [ $i -lt 20000 ]; do printf 'time=00:00:01.00\r'; i=$((i+1)); done; printf 'done-marker\n'`},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Tail, "done-marker")
}

func TestRunSurfacesCaptureError(t *testing.T) {
	r := New(4)

	// A single separator-free line beyond the scanner limit cannot be
	// captured; the result must say so instead of losing it silently.
	res, err := r.Run(context.Background(), Request{
		Path: "sh",
		Args: []string{"-c", "head -c 2097152 /dev/zero | tr '\\0' 'a'"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Log, "output capture error:")
}

func TestScanCRLines(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		atEOF   bool
		advance int
		token   string
	}{
		{"newline", "abc\ndef", false, 4, "abc"},
		{"carriage return", "abc\rdef", false, 4, "abc"},
		{"crlf", "abc\r\ndef", false, 5, "abc"},
		{"no separator midstream", "abc", false, 0, ""},
		{"no separator at eof", "abc", true, 3, "abc"},
		{"empty at eof", "", true, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advance, token, err := scanCRLines([]byte(tt.data), tt.atEOF)
			require.NoError(t, err)
			assert.Equal(t, tt.advance, advance)
			assert.Equal(t, tt.token, string(token))
		})
	}
}

func TestTailAlignment(t *testing.T) {
	full := "first line\nsecond line\nthird line\n"
	got := tail(full, 15)
	assert.Equal(t, "third line\n", got)

	assert.Equal(t, full, tail(full, 1000))
}
