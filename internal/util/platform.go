package util

import (
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemInfo holds information about the host system.
type SystemInfo struct {
	Platform     string `json:"platform"`
	Hostname     string `json:"hostname"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	CPUModel     string `json:"cpu_model"`
	CPUCores     int    `json:"cpu_cores"`
	TotalMemory  uint64 `json:"total_memory_mb"`
	GoVersion    string `json:"go_version"`
}

// GetSystemInfo gathers system information. Fields gopsutil cannot read are
// left empty.
func GetSystemInfo() SystemInfo {
	info := SystemInfo{
		Platform:     runtime.GOOS,
		Architecture: runtime.GOARCH,
		CPUCores:     runtime.NumCPU(),
		GoVersion:    runtime.Version(),
	}

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	if hostInfo, err := host.Info(); err == nil {
		info.OS = fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion)
	}
	if cpuInfo, err := cpu.Info(); err == nil && len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = memInfo.Total / (1024 * 1024)
	}

	return info
}

// ResourceUsage is a point-in-time view of host and process load.
type ResourceUsage struct {
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryUsedMB   uint64  `json:"memory_used_mb"`
	MemoryPercent  float64 `json:"memory_percent"`
	ProcessRSSMB   uint64  `json:"process_rss_mb"`
	ProcessThreads int32   `json:"process_threads"`
	Goroutines     int     `json:"goroutines"`
	UptimeSeconds  uint64  `json:"host_uptime_sec"`
}

// GetResourceUsage samples host CPU and memory along with this process's
// footprint. Sampling errors leave the affected fields zero.
func GetResourceUsage() ResourceUsage {
	usage := ResourceUsage{Goroutines: runtime.NumGoroutine()}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		usage.CPUPercent = percentages[0]
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		usage.MemoryUsedMB = memInfo.Used / (1024 * 1024)
		usage.MemoryPercent = memInfo.UsedPercent
	}
	if uptime, err := host.Uptime(); err == nil {
		usage.UptimeSeconds = uptime
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil {
			usage.ProcessRSSMB = memInfo.RSS / (1024 * 1024)
		}
		if threads, err := proc.NumThreads(); err == nil {
			usage.ProcessThreads = threads
		}
	}

	return usage
}

// DiskUsage is the usage of the filesystem holding a path, in GB.
type DiskUsage struct {
	Total       uint64  `json:"total_gb"`
	Free        uint64  `json:"free_gb"`
	UsedPercent float64 `json:"used_percent"`
}

// GetDiskUsage returns disk usage for the filesystem holding path.
func GetDiskUsage(path string) (DiskUsage, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return DiskUsage{}, err
	}
	return DiskUsage{
		Total:       usage.Total / (1024 * 1024 * 1024),
		Free:        usage.Free / (1024 * 1024 * 1024),
		UsedPercent: usage.UsedPercent,
	}, nil
}
