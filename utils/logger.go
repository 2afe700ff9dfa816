package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

// InitLogger opens dated per-level log files under logs/ and builds the level
// loggers. Call once at boot, before any request handling.
func InitLogger() error {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	day := time.Now().Format("2006-01-02")
	open := func(level string) (*os.File, error) {
		name := filepath.Join(logsDir, fmt.Sprintf("%s-%s.log", level, day))
		return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	}

	infoFile, err := open("info")
	if err != nil {
		return fmt.Errorf("failed to open info log file: %v", err)
	}
	errorFile, err := open("error")
	if err != nil {
		return fmt.Errorf("failed to open error log file: %v", err)
	}
	debugFile, err := open("debug")
	if err != nil {
		return fmt.Errorf("failed to open debug log file: %v", err)
	}

	flags := log.Ldate | log.Ltime | log.Lshortfile
	InfoLogger = log.New(infoFile, "INFO: ", flags)
	ErrorLogger = log.New(errorFile, "ERROR: ", flags)
	DebugLogger = log.New(debugFile, "DEBUG: ", flags)
	return nil
}

func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Printf(format, v...)
	}
}

// LogRequest records one served request at info level.
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v", method, path, ip, status, duration)
}

// LogErrorWithStack records a recovered panic with its stack trace.
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
