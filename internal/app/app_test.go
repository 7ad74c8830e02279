package app

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/AdamBeresnev/courtkeeper/internal/config"
	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg, err := config.Parse()
			require.NoError(t, err)
			cfg.StoreDriver = driver
			cfg.SQLitePath = ":memory:"

			var logs bytes.Buffer
			m, closeStore, err := NewManager(context.Background(), cfg, NewLogger(&logs, slog.LevelInfo))
			require.NoError(t, err)
			defer closeStore()

			tournament, err := m.CreateTournament(context.Background(), service.TournamentInput{CourtCount: 2, PairingMode: "RANDOM"})
			require.NoError(t, err)

			fetched, err := m.GetTournament(context.Background(), tournament.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, fetched.CourtCount)
			assert.Contains(t, logs.String(), `"command":"create_tournament"`)
		})
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.Config{StoreDriver: "etcd"})
	assert.Error(t, err)
}
