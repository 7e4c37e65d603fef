package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateArgsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{name: "index", args: []string{"index"}, wantErr: false},
		{name: "io-list", args: []string{"io-list"}, wantErr: false},
		{name: "io-summary", args: []string{"io-summary"}, wantErr: false},
		{name: "unknown deliverable", args: []string{"summary"}, wantErr: true},
		{name: "no args", args: []string{}, wantErr: true},
		{name: "too many args", args: []string{"index", "io-list"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := generateCmd.Args(generateCmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateConfigFromFlags(t *testing.T) {
	cmd := generateCmd
	require.NoError(t, cmd.Flags().Set("database", "db.yaml"))
	require.NoError(t, cmd.Flags().Set("output", "out.xlsx"))
	require.NoError(t, cmd.Flags().Set("spare-pct", "25"))

	config := getGenerateConfigFromFlags(cmd)
	assert.Equal(t, "db.yaml", config.Database)
	assert.Equal(t, "out.xlsx", config.Output)
	assert.Equal(t, 25.0, config.SparePct)
}

func TestWatchConfigValidate(t *testing.T) {
	config := NewWatchConfig()
	assert.NoError(t, config.Validate())

	config.DebounceTime = -1
	assert.Error(t, config.Validate())
}
