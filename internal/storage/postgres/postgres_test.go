package postgres

import (
	"testing"

	"github.com/calcium-format/exporter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Unreachable(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Username: "calcium",
		Password: "calcium",
		Database: "calcium",
	}

	b, err := New(cfg, "")
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
