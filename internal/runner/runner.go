package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ffmpeg-toolkit/pkg/models"
)

// Status is the terminal outcome of one supervised FFmpeg run.
// A run moves NotStarted -> Running -> exactly one of these; none of them
// triggers an automatic retry. Retrying is a caller decision: blindly
// re-running a transcode that failed on bad input wastes time.
type Status string

const (
	StatusSuccess   Status = "SUCCESS"
	StatusFailure   Status = "FAILURE"
	StatusTimedOut  Status = "TIMED_OUT"
	StatusCancelled Status = "CANCELLED"
)

// Result is the outcome of one subprocess run. Created at process exit,
// immutable thereafter, owned by the caller.
type Result struct {
	Status   Status
	ExitCode int

	// Tail holds the last chunk of captured output (bounded size) for
	// failure diagnostics; FFmpeg writes its errors to stderr, which is
	// merged into the capture.
	Tail string

	// Log is the full captured output, order preserved.
	Log string

	Elapsed time.Duration
}

// LogSink receives captured output lines as they arrive, in order.
// Implementations render them to a console, a file, a web socket.
type LogSink interface {
	Line(string)
}

// SinkFunc adapts a function to the LogSink interface.
type SinkFunc func(string)

func (f SinkFunc) Line(s string) { f(s) }

// Request describes one subprocess run.
type Request struct {
	Path string   // binary to execute
	Args []string // argument tokens, already built

	// Timeout terminates the process when exceeded; zero means no limit.
	Timeout time.Duration

	// DurationSec is the media duration in seconds, used to derive percent
	// progress from FFmpeg's time= lines. Zero disables progress parsing.
	DurationSec float64

	Sink       LogSink
	OnProgress func(models.JobProgress)
}

// Runner supervises external tool processes. One Run supervises a single
// subprocess at a time; independent Runs may execute concurrently, they
// share no mutable state.
type Runner struct {
	tailBytes int
}

// New creates a runner keeping up to tailKB KiB of output tail on failure.
func New(tailKB int) *Runner {
	if tailKB <= 0 {
		tailKB = 4
	}
	return &Runner{tailBytes: tailKB * 1024}
}

// Progress line patterns in FFmpeg stderr, e.g.
// "frame= 100 fps= 25 ... time=00:00:15.45 ... speed=1.2x".
var (
	reTime = regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2}\.\d+)`)
	reFPS  = regexp.MustCompile(`fps=\s*(\d+(?:\.\d+)?)`)
)

// maxLineBytes caps a single captured line. FFmpeg never legitimately
// emits lines anywhere near this size.
const maxLineBytes = 1 << 20

// scanCRLines terminates tokens on \r as well as \n. FFmpeg overwrites
// its periodic stats line in place with bare carriage returns and only
// writes a newline at the end of the run; splitting on newlines alone
// would hold back every progress update until the process exits.
func scanCRLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance := i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance = i + 2
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Run spawns the process and blocks until it reaches a terminal state.
// Cancelling ctx terminates the process promptly and yields
// StatusCancelled; cancellation is idempotent and safe from any goroutine.
// Run returns an error only when the process could not be started at all.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("empty binary path")
	}
	// Refuse to start work that is already cancelled.
	if err := ctx.Err(); err != nil {
		return &Result{Status: StatusCancelled}, nil
	}

	cmd := exec.Command(req.Path, req.Args...)
	// Own process group so filter subprocesses die with the parent.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Merge stdout and stderr into one pipe to preserve line order.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create output pipe: %w", err)
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("failed to start %s: %w", req.Path, err)
	}
	// Close the parent's write end so the reader sees EOF on exit.
	pw.Close()

	var logBuf strings.Builder
	var g errgroup.Group
	g.Go(func() error {
		defer pr.Close()
		scanner := bufio.NewScanner(pr)
		scanner.Split(scanCRLines)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := scanner.Text()
			logBuf.WriteString(line)
			logBuf.WriteByte('\n')
			if req.Sink != nil {
				req.Sink.Line(line)
			}
			r.parseProgress(line, req)
		}
		return scanner.Err()
	})

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var timeoutCh <-chan time.Time
	if req.Timeout > 0 {
		timer := time.NewTimer(req.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	res := &Result{}
	select {
	case waitErr := <-waitCh:
		res.ExitCode = exitCodeFromError(waitErr)
		if res.ExitCode == 0 {
			res.Status = StatusSuccess
		} else {
			res.Status = StatusFailure
		}

	case <-ctx.Done():
		r.killGroup(cmd)
		<-waitCh
		res.Status = StatusCancelled

	case <-timeoutCh:
		r.killGroup(cmd)
		<-waitCh
		res.Status = StatusTimedOut
	}

	// Drain remaining output; partial output is preserved on every path.
	// A read error means the capture is incomplete, which matters when
	// the tail is used to diagnose a failure.
	if err := g.Wait(); err != nil {
		fmt.Fprintf(&logBuf, "output capture error: %v\n", err)
	}

	res.Elapsed = time.Since(start)
	res.Log = logBuf.String()
	res.Tail = tail(res.Log, r.tailBytes)
	return res, nil
}

func (r *Runner) parseProgress(line string, req Request) {
	if req.OnProgress == nil || req.DurationSec <= 0 {
		return
	}
	m := reTime.FindStringSubmatch(line)
	if len(m) != 4 {
		return
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.ParseFloat(m[3], 64)
	currentSec := float64(h*3600+min*60) + s

	pct := currentSec / req.DurationSec * 100
	if pct > 100 {
		pct = 100
	}

	fps := 0.0
	if fm := reFPS.FindStringSubmatch(line); len(fm) > 1 {
		fps, _ = strconv.ParseFloat(fm[1], 64)
	}
	req.OnProgress(models.JobProgress{Percent: pct, FPS: fps})
}

// killGroup terminates the whole process group. Errors are ignored: the
// group may already be gone, which is the outcome we want anyway.
func (r *Runner) killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		// Group kill can fail on an already-reaped leader.
		_ = cmd.Process.Kill()
	}
}

// exitCodeFromError extracts the exit code from a Wait error. Returns 0
// for nil, the real code for ExitError, -1 for anything else.
func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// tail returns the last n bytes of s, aligned to a line start when the
// cut lands mid-line.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[len(s)-n:]
	if idx := strings.IndexByte(cut, '\n'); idx >= 0 && idx+1 < len(cut) {
		cut = cut[idx+1:]
	}
	return cut
}
