package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { Set(nil) })

	tests := []struct {
		name    string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "Debug", level: "debug", want: zapcore.DebugLevel},
		{name: "Info", level: "info", want: zapcore.InfoLevel},
		{name: "Upper case", level: "WARN", want: zapcore.WarnLevel},
		{name: "Unknown level", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Set(nil)

			err := Initialize(tt.level)
			if tt.wantErr {
				assert.ErrorContains(t, err, `invalid log level "verbose"`)
				return
			}
			require.NoError(t, err)
			assert.True(t, Logger().Core().Enabled(tt.want))
			assert.False(t, Logger().Core().Enabled(tt.want-1))
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(zapcore.InfoLevel)

	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, ServiceName, cfg.InitialFields["service"])
	assert.True(t, cfg.DisableStacktrace)
	assert.False(t, NewConfig(zapcore.DebugLevel).DisableStacktrace)
}

func TestLogger_NopBeforeInitialize(t *testing.T) {
	Set(nil)

	assert.NotNil(t, Logger())
	assert.NoError(t, Sync())
}
