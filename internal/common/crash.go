package common

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// WriteCrashReport writes a crash report for a fatal panic into dir and returns its path.
// The report is also echoed to stderr; an empty path means the file could not be written.
func WriteCrashReport(dir string, panicVal interface{}, stackTrace string) string {
	var report bytes.Buffer

	fmt.Fprintf(&report, "=== JIGOOR CRASH REPORT ===\n")
	fmt.Fprintf(&report, "Time: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&report, "Version: %s\n\n", GetFullVersion())

	fmt.Fprintf(&report, "=== PANIC ===\n%v\n\n", panicVal)
	fmt.Fprintf(&report, "=== STACK TRACE ===\n%s\n", stackTrace)
	fmt.Fprintf(&report, "=== ALL GOROUTINES ===\n%s\n", allGoroutineStacks())

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	fmt.Fprintf(&report, "=== RUNTIME ===\n")
	fmt.Fprintf(&report, "Goroutines: %d (background tasks started: %d)\n", runtime.NumGoroutine(), GetGoroutineCount())
	fmt.Fprintf(&report, "Platform: %s/%s, CPUs: %d\n", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	fmt.Fprintf(&report, "Alloc: %d MB, Sys: %d MB, NumGC: %d\n", memStats.Alloc/1024/1024, memStats.Sys/1024/1024, memStats.NumGC)
	fmt.Fprintf(&report, "=== END CRASH REPORT ===\n")

	fmt.Fprintf(os.Stderr, "\n!!! FATAL CRASH: %v !!!\n", panicVal)

	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: failed to create %s: %v\n%s", dir, err, report.String())
		return ""
	}

	crashPath := filepath.Join(dir, fmt.Sprintf("crash-%s.log", time.Now().Format("2006-01-02T15-04-05")))
	if err := os.WriteFile(crashPath, report.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "CRASH: failed to write crash file: %v\n%s", err, report.String())
		return ""
	}

	fmt.Fprintf(os.Stderr, "Crash report saved to: %s\n", crashPath)
	return crashPath
}

// RecoverWithCrashReport writes a crash report and exits when the calling goroutine panics.
// Usage: defer common.RecoverWithCrashReport(dir)
func RecoverWithCrashReport(dir string) {
	if r := recover(); r != nil {
		buf := make([]byte, 8192)
		n := runtime.Stack(buf, false)
		WriteCrashReport(dir, r, string(buf[:n]))
		os.Exit(1)
	}
}

// allGoroutineStacks grows its buffer until every stack fits, up to 64MB
func allGoroutineStacks() string {
	buf := make([]byte, 64*1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) || len(buf) >= 64*1024*1024 {
			return string(buf[:n])
		}
		buf = make([]byte, len(buf)*2)
	}
}
