package sandbox

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// freeRAMPercent() estimates the percentage of system RAM currently free.
// On Linux it reads /proc/meminfo (MemAvailable/MemTotal); elsewhere it
// falls back to a conservative constant, matching its own
// platform-agnostic heuristic in internal/preflight/memory.go.
func freeRAMPercent() float64 {
	if runtime.GOOS == "linux" {
 if pct, ok := linuxFreeRAMPercent(); ok {
 return pct
 }
	}
	return 50.0
}

func linuxFreeRAMPercent() (float64, bool) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
 return 0, false
	}
	defer f.Close()

	var totalKB, availKB int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
 line := scanner.Text()
 switch {
 case strings.HasPrefix(line, "MemTotal:"):
 totalKB = parseMeminfoKB(line)
 case strings.HasPrefix(line, "MemAvailable:"):
 availKB = parseMeminfoKB(line)
 }
	}
	if totalKB <= 0 {
 return 0, false
	}
	return float64(availKB) / float64(totalKB) * 100.0, true
}

func parseMeminfoKB(line string) int64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
 return 0
	}
	v, _ := strconv.ParseInt(fields[1], 10, 64)
	return v
}
