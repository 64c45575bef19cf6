package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/database"
)

func TestEmbeddedSchemaRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, config.SQLiteConfig{Path: database.MemoryPath})
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck // Test cleanup

	require.NoError(t, db.Migrate(ctx))

	for _, table := range []string{"farms", "crops", "devices", "sensor_readings", "legacy_readings"} {
		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count))
		assert.Equal(t, 1, count, table)
	}

	require.NoError(t, db.MigrateDown(ctx))

	var remaining int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='farms'",
	).Scan(&remaining))
	assert.Zero(t, remaining)
}
