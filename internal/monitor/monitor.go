package monitor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"ffmpeg-toolkit/pkg/models"
)

// SystemMonitor gathers host load figures. A transcode saturates the CPU
// by design, so the stats are used for a preflight warning and for the
// webhook result payload, never to refuse work.
type SystemMonitor struct{}

func NewSystemMonitor() *SystemMonitor {
	return &SystemMonitor{}
}

// GetStats gathers real-time CPU, RAM and output-volume figures.
// outputPath selects the volume checked for free space; empty skips the
// disk lookup.
func (m *SystemMonitor) GetStats(ctx context.Context, outputPath string) (models.HardwareStats, error) {
	stats := models.HardwareStats{}

	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to get mem stats: %w", err)
	}
	stats.RAMPercent = v.UsedPercent

	// A small sampling interval is more accurate than the instantaneous
	// gauge that interval 0 returns.
	cpuPct, err := cpu.PercentWithContext(ctx, 500*time.Millisecond, false)
	if err != nil {
		return stats, fmt.Errorf("failed to get cpu stats: %w", err)
	}
	if len(cpuPct) > 0 {
		stats.CPUPercent = cpuPct[0]
	}

	if outputPath != "" {
		if usage, err := disk.UsageWithContext(ctx, filepath.Dir(outputPath)); err == nil {
			stats.DiskFreeBytes = usage.Free
		}
	}

	// If CPU > 80% or RAM > 90%, flag that a software encode will crawl.
	stats.IsBusy = stats.CPUPercent > 80.0 || stats.RAMPercent > 90.0

	return stats, nil
}
