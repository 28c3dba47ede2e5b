package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFlagsAndSentences(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		flags     []string
		sentences []string
	}{
		{
			"flags then sentences",
			[]string{"-data", "r.tsv", "great film", "awful"},
			[]string{"-data", "r.tsv"},
			[]string{"great film", "awful"},
		},
		{
			"equals form",
			[]string{"-data=r.tsv", "-epochs=2", "nice"},
			[]string{"-data=r.tsv", "-epochs=2"},
			[]string{"nice"},
		},
		{
			"sentences only",
			[]string{"loved it"},
			[]string{},
			[]string{"loved it"},
		},
		{
			"flags only",
			[]string{"-data", "r.tsv"},
			[]string{"-data", "r.tsv"},
			[]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, sentences := splitFlagsAndSentences(tt.args)
			assert.Equal(t, tt.flags, []string(flags))
			assert.Equal(t, tt.sentences, []string(sentences))
		})
	}
}

func TestLoadConfigRequiresData(t *testing.T) {
	_, err := loadConfig(nil)
	assert.Error(t, err)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig([]string{"-data", "r.tsv", "-epochs", "3", "-device", "cpu"})
	require.NoError(t, err)
	assert.Equal(t, "r.tsv", cfg.DataPath)
	assert.Equal(t, 3, cfg.Epochs)
	assert.Equal(t, "cpu", cfg.Device)
}

func TestSelectBackendCPU(t *testing.T) {
	backend, err := selectBackend("cpu")
	require.NoError(t, err)
	assert.Equal(t, "CPU", backend.Name())
}
