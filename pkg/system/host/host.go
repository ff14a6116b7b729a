// Package host reads basic machine facts so a report can record the hardware
// behind a measurement campaign.
package host

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/ocubes/mcscale/pkg/types"
)

// Info describes the machine a campaign ran on.
type Info struct {
	Hostname string
	Kernel   string
	CPUModel string
	CPUs     int
	MemTotal types.Bytes
}

// Summary collects host facts. Reads are best effort: on systems without
// /proc the string fields fall back to "unknown" and MemTotal stays zero.
func Summary() Info {
	info := Info{
		Hostname: "unknown",
		Kernel:   "unknown",
		CPUModel: "unknown",
		CPUs:     runtime.NumCPU(),
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		info.Hostname = h
	}
	if k := firstLine("/proc/sys/kernel/osrelease"); k != "" {
		info.Kernel = k
	}
	if m := cpuModel("/proc/cpuinfo"); m != "" {
		info.CPUModel = m
	}
	if mem, ok := memTotal("/proc/meminfo"); ok {
		info.MemTotal = mem
	}
	return info
}

func firstLine(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(b), "\n")
	return strings.TrimSpace(line)
}

// cpuModel returns the first "model name" entry of a cpuinfo file.
func cpuModel(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if !strings.HasPrefix(sc.Text(), "model name") {
			continue
		}
		if _, v, ok := strings.Cut(sc.Text(), ":"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// memTotal parses the MemTotal line of a meminfo file, reported by the
// kernel in KiB.
func memTotal(path string) (types.Bytes, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if !strings.HasPrefix(sc.Text(), "MemTotal:") {
			continue
		}
		fs := strings.Fields(sc.Text())
		if len(fs) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fs[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return types.Bytes(kb * 1024), true
	}
	return 0, false
}
