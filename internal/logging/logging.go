// internal/logging/logging.go
// Package logging routes the standard logger to a log file and, in debug
// mode, to stderr. Request traffic to the analysis service is logged through
// LogRequest in a single-line key=value form.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Directions used when logging traffic with the analysis service.
const (
	Outbound = "CLIENT->API"
	Inbound  = "API->CLIENT"
)

// maxPayload caps logged payloads; result bodies carry full instrument scans.
const maxPayload = 2048

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init points the standard logger at logPath. When console is true, stderr
// receives a copy. With no path and no console, logs are discarded.
func Init(logPath string, console bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if console {
		writers = append(writers, os.Stderr)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close releases the log file and restores stderr output.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogRequest records one request or response exchanged with the service.
func LogRequest(direction, endpoint, kind, requestID string, payload any) {
	msg := buildRequestMessage(direction, endpoint, kind, requestID, payload)
	log.Println(msg)
}

func buildRequestMessage(direction, endpoint, kind, requestID string, payload any) string {
	dir := strings.TrimSpace(direction)
	if dir != "" {
		dir = strings.ToUpper(dir)
	}
	endpointValue := strings.TrimSpace(endpoint)
	if endpointValue == "" {
		endpointValue = "unknown"
	}
	kindValue := strings.TrimSpace(kind)
	if kindValue == "" {
		kindValue = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", dir)}
	parts = append(parts, fmt.Sprintf("endpoint=%s", endpointValue))
	parts = append(parts, fmt.Sprintf("type=%s", kindValue))
	if requestID = strings.TrimSpace(requestID); requestID != "" {
		parts = append(parts, fmt.Sprintf("request_id=%s", requestID))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", clip(formatPayload(payload))))
	return strings.Join(parts, " ")
}

func clip(s string) string {
	if len(s) <= maxPayload {
		return s
	}
	return s[:maxPayload] + fmt.Sprintf("...(%d bytes)", len(s))
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
