package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	debugColor   = color.New(color.FgHiBlack)

	debugEnabled = os.Getenv("DEBUG") == "true"
)

// SetDebug toggles LogDebug output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

func stamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func LogInfo(format string, v ...interface{}) {
	infoColor.Printf("[%s] [INFO] %s\n", stamp(), fmt.Sprintf(format, v...))
}

func LogSuccess(format string, v ...interface{}) {
	successColor.Printf("[%s] [OK] ✅ %s\n", stamp(), fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...interface{}) {
	warnColor.Printf("[%s] [WARN] ⚠️  %s\n", stamp(), fmt.Sprintf(format, v...))
}

func LogError(format string, v ...interface{}) {
	errorColor.Fprintf(os.Stderr, "[%s] [ERROR] ❌ %s\n", stamp(), fmt.Sprintf(format, v...))
}

func LogDebug(format string, v ...interface{}) {
	if !debugEnabled {
		return
	}
	debugColor.Printf("[%s] [DEBUG] %s\n", stamp(), fmt.Sprintf(format, v...))
}

// LogRequest prints one line per HTTP request, colored by status class.
func LogRequest(requestID, method, path string, status int, duration time.Duration) {
	c := successColor
	switch {
	case status >= 500:
		c = errorColor
	case status >= 400:
		c = warnColor
	case status >= 300:
		c = infoColor
	}
	c.Printf("[%s] %-6s %-40s %d (%s) req=%s\n", stamp(), method, path, status, duration.Round(time.Microsecond), requestID)
}
