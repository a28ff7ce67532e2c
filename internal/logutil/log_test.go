package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func Test_InitLogger(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       LogConfig
		expectErr bool
	}{
		{name: "defaults", cfg: LogConfig{}},
		{name: "json debug", cfg: LogConfig{Level: "debug", Format: "json"}},
		{name: "upper case level", cfg: LogConfig{Level: "WARN"}},
		{name: "bad level", cfg: LogConfig{Level: "loud"}, expectErr: true},
		{name: "bad format", cfg: LogConfig{Format: "xml"}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer ReplaceLogger(zap.NewNop())

			err := InitLogger(tc.cfg)

			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_ReplaceLogger(t *testing.T) {
	assert := assert.New(t)
	core, logs := observer.New(zap.InfoLevel)
	ReplaceLogger(zap.New(core))
	defer ReplaceLogger(zap.NewNop())

	BgLogger().Info("hello", zap.String("k", "v"))

	entries := logs.All()
	if assert.Len(entries, 1) {
		assert.Equal("hello", entries[0].Message)
		assert.Equal("v", entries[0].ContextMap()["k"])
	}
}
