package logging

import (
	"testing"

	"github.com/milk9111/arena/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		level   zap.AtomicLevel
		wantErr bool
	}{
		{"defaults", config.LoggingConfig{}, zap.NewAtomicLevelAt(zap.InfoLevel), false},
		{"debug json", config.LoggingConfig{Level: "debug", Format: "json"}, zap.NewAtomicLevelAt(zap.DebugLevel), false},
		{"warn console", config.LoggingConfig{Level: "warn", Format: "console"}, zap.NewAtomicLevelAt(zap.WarnLevel), false},
		{"bad level", config.LoggingConfig{Level: "loud"}, zap.AtomicLevel{}, true},
		{"bad format", config.LoggingConfig{Format: "xml"}, zap.AtomicLevel{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.level.Level()))
			assert.False(t, log.Core().Enabled(tt.level.Level()-1))
		})
	}
}
