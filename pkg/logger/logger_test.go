package logger

import (
	"testing"

	"github.com/rs/zerolog"

	"crystaldb/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"bogus", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := parseLogLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for unknown level")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if level != tt.want {
				t.Errorf("Expected level %v, got %v", tt.want, level)
			}
		})
	}
}

func TestNew(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if log == nil {
		t.Fatal("Expected logger, got nil")
	}

	if _, err := New(&config.LoggingConfig{Level: "bogus"}); err == nil {
		t.Error("Expected error for invalid log level")
	}
}

func TestWithFieldDoesNotMutate(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	base := log.WithField("a", 1)
	derived := base.WithField("b", 2)

	baseImpl := base.(*zerologLogger)
	derivedImpl := derived.(*zerologLogger)

	if len(baseImpl.fields) != 1 {
		t.Errorf("Expected base logger to keep 1 field, got %d", len(baseImpl.fields))
	}
	if len(derivedImpl.fields) != 2 {
		t.Errorf("Expected derived logger to have 2 fields, got %d", len(derivedImpl.fields))
	}
}

func TestGetLoggerDefault(t *testing.T) {
	globalLogger = nil

	if GetLogger() == nil {
		t.Fatal("Expected a default logger when uninitialized")
	}
}
