// Package sysinfo gathers the host metadata stored alongside benchmark
// results, so saved measurements stay interpretable once the machine that
// produced them is gone.
package sysinfo

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Info describes the environment a benchmark ran on. All fields are
// best-effort: probes that fail leave their field at "unknown" (or empty for
// GPU, which most hosts simply do not have).
type Info struct {
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	OS        string `json:"operating_system"`
	Hostname  string `json:"host_name"`
	CPU       string `json:"cpu"`
	GPU       string `json:"gpu,omitempty"`
	RAM       string `json:"ram"`
}

// Gather collects the host metadata once. It never fails; unprobeable
// fields degrade to placeholders.
func Gather() Info {
	info := Info{
		GoVersion: runtime.Version(),
		Platform:  "unknown",
		OS:        "unknown",
		Hostname:  "unknown",
		CPU:       "unknown",
		RAM:       "unknown",
	}

	if hi, err := host.Info(); err == nil {
		info.Platform = fmt.Sprintf("%s-%s-%s", hi.OS, hi.KernelVersion, hi.KernelArch)
		info.OS = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
		info.Hostname = hi.Hostname
	} else if hn, err := os.Hostname(); err == nil {
		info.Hostname = hn
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 && cpus[0].ModelName != "" {
		info.CPU = cpus[0].ModelName
	}

	info.GPU = probeGPU()

	if vm, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%.4f GB", float64(vm.Total)/(1024*1024*1024))
	}

	return info
}

// probeGPU asks nvidia-smi for installed GPUs. Hosts without the tool or
// without a GPU yield the empty string.
func probeGPU() string {
	out, err := exec.Command("nvidia-smi", "-L").Output()
	if err != nil {
		return ""
	}
	line := string(out)
	if !strings.Contains(line, "GPU") {
		return ""
	}
	// "GPU 0: NVIDIA GeForce RTX 3080 (UUID: ...)" -> "NVIDIA GeForce RTX 3080"
	if _, name, ok := strings.Cut(line, ":"); ok {
		name, _, _ = strings.Cut(name, "(")
		return strings.TrimSpace(name)
	}
	return ""
}
