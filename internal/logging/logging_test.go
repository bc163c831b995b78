package logging

import (
	"testing"

	"go.uber.org/zap"

	"autoapply/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{name: "defaults", cfg: config.LoggingConfig{}},
		{name: "json debug", cfg: config.LoggingConfig{Level: "debug", Format: "json"}},
		{name: "bad level", cfg: config.LoggingConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: config.LoggingConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			logger.Sync()
		})
	}
}

func TestNew_Level(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "warn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zap.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !logger.Core().Enabled(zap.ErrorLevel) {
		t.Error("error must be enabled at warn level")
	}
}
