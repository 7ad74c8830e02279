package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "BALANCED", cfg.DefaultPairingMode)

	policy := cfg.Policy()
	assert.False(t, policy.AllowDraws)
	assert.Equal(t, 99, policy.MaxScore)
	assert.Equal(t, 1.0, policy.MinSkill)
	assert.Equal(t, 5.0, policy.MaxSkill)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "ladder")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("STORAGE_TIMEOUT", "250ms")
	t.Setenv("ALLOW_DRAWS", "true")
	t.Setenv("MAX_SKILL", "10")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverS3, cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.StorageTimeout)
	assert.True(t, cfg.Policy().AllowDraws)
	assert.Equal(t, 10.0, cfg.Policy().MaxSkill)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())

	obj := cfg.ObjectStore()
	assert.Equal(t, "ladder", obj.Bucket)
	assert.Equal(t, "http://localhost:9000", obj.Endpoint)
	assert.Equal(t, "auto", obj.Region)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unknown driver", "STORE_DRIVER", "postgres", "STORE_DRIVER"},
		{"s3 without bucket", "STORE_DRIVER", "s3", "S3_BUCKET"},
		{"zero courts", "DEFAULT_COURTS", "0", "DEFAULT_COURTS"},
		{"bad mode", "DEFAULT_PAIRING_MODE", "swiss", "DEFAULT_PAIRING_MODE"},
		{"bad duration", "STORAGE_TIMEOUT", "soon", "parse env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
