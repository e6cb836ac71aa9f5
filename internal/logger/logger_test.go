package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		dev       bool
		level     string
		verbose   bool
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "production info", level: "info", wantLevel: zapcore.InfoLevel},
		{name: "development warn", dev: true, level: "warn", wantLevel: zapcore.WarnLevel},
		{name: "verbose overrides level", level: "error", verbose: true, wantLevel: zapcore.DebugLevel},
		{name: "invalid level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.dev, tt.level, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}
