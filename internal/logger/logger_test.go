package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		debug     bool
		checkFunc func(t *testing.T, output string)
	}{
		{
			name: "Text Logger Info Level",
			config: Config{
				Level:  "info",
				Format: "text",
				Output: "stdout",
			},
			checkFunc: func(t *testing.T, output string) {
				if !strings.Contains(output, "level=INFO") || !strings.Contains(output, `msg="test message"`) {
					t.Errorf("Expected text log output with info level and message, got: %s", output)
				}
				if !strings.Contains(output, "service=mr-warden") {
					t.Errorf("Expected service attribute, got: %s", output)
				}
			},
		},
		{
			name: "JSON Logger Debug Level",
			config: Config{
				Level:  "debug",
				Format: "json",
				Output: "stdout",
			},
			debug: true,
			checkFunc: func(t *testing.T, output string) {
				var logEntry map[string]interface{}
				if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
					t.Fatalf("Failed to unmarshal JSON log: %v, output: %s", err, output)
				}
				if logEntry["level"] != "DEBUG" || logEntry["msg"] != "test message" {
					t.Errorf("Expected JSON log output with debug level and message, got: %v", logEntry)
				}
			},
		},
		{
			name: "Invalid level falls back to info",
			config: Config{
				Level:  "verbose",
				Format: "text",
			},
			debug: true,
			checkFunc: func(t *testing.T, output string) {
				if output != "" {
					t.Errorf("Expected debug message to be filtered, got: %s", output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogger(tt.config, &buf)

			if tt.debug {
				log.Debug("test message")
			} else {
				log.Info("test message")
			}

			tt.checkFunc(t, buf.String())
		})
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Config{Level: "info", Format: "text"}, &buf)

	done := Timed(log, "review", "mr", 7)
	done()

	out := buf.String()
	if !strings.Contains(out, "finished review in") || !strings.Contains(out, "mr=7") {
		t.Errorf("unexpected timer output: %s", out)
	}
}
