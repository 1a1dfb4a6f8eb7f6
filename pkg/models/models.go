package models

// Shared payload types exchanged between the toolkit core, the webhook
// notifier and any external caller (CLI, future web UI).

// JobProgress represents real-time progress during an FFmpeg run.
type JobProgress struct {
	Percent float64 `json:"percent"`
	FPS     float64 `json:"fps"`
}

// HardwareStats captures real-time system load gathered by gopsutil.
type HardwareStats struct {
	// CPU usage percentage (0.0 to 100.0)
	CPUPercent float64 `json:"cpu_percent"`

	// Used RAM percentage (0.0 to 100.0)
	RAMPercent float64 `json:"ram_percent"`

	// Free bytes on the volume holding the output path
	DiskFreeBytes uint64 `json:"disk_free_bytes"`

	// Computed flag: is the system too busy to start another encode?
	IsBusy bool `json:"is_busy"`
}

// JobResultPayload is posted to the configured webhook when a job reaches
// a terminal state.
type JobResultPayload struct {
	Operation string `json:"operation"` // "burn", "convert", "trim", ...
	Status    string `json:"status"`    // "SUCCESS", "FAILURE", "TIMED_OUT", "CANCELLED"
	Encoder   string `json:"encoder,omitempty"`
	ExitCode  int    `json:"exit_code"`
	ErrorMsg  string `json:"error_message,omitempty"`

	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`

	ElapsedMS int64          `json:"elapsed_ms"`
	Hardware  *HardwareStats `json:"hardware,omitempty"`
}
