package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		appName string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "calcium-logs",
			appName: "calcium_export",
			want:    filepath.Join("calcium-logs", "calcium_export.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./calcium-logs",
			appName: "calcium_export",
			want:    filepath.Join(".", "calcium-logs", "calcium_export.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "calcium"),
			appName: "calcium_export",
			want:    filepath.Join("/var", "log", "calcium", "calcium_export.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.appName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}
