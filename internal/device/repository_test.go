package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/warehouse"
)

// setupTestDB creates an in-memory SQLite database with the devices and crops tables.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	schema := `
		CREATE TABLE crops (
			crop_id TEXT PRIMARY KEY,
			farm_id TEXT NOT NULL,
			crop_name TEXT,
			critical_temp_min REAL
		);
		CREATE TABLE devices (
			device_id TEXT PRIMARY KEY,
			crop_id TEXT,
			device_name TEXT,
			state INTEGER,
			control_mode TEXT
		);
		INSERT INTO crops VALUES
			('crop-tomato', 'farm-1', 'Tomato', 30.0),
			('crop-basil', 'farm-1', 'Basil', NULL);
		INSERT INTO devices VALUES
			('dev-b', 'crop-tomato', 'Bravo', 1, 'AUTOMATICO'),
			('dev-a', 'crop-tomato', 'Alpha', NULL, NULL),
			('dev-c', 'crop-basil', NULL, 0, 'MANUAL'),
			('dev-orphan', NULL, 'Orphan', 0, 'MANUAL');
	`
	_, err = db.Exec(schema)
	require.NoError(t, err)
	return db
}

func TestSQLiteRepository_ListByCrop(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	got, err := repo.ListByCrop(context.Background(), "crop-tomato")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "dev-a", got[0].ID)
	assert.Equal(t, "Alpha", got[0].Name)
	assert.Nil(t, got[0].State)

	assert.Equal(t, "dev-b", got[1].ID)
	require.NotNil(t, got[1].State)
	assert.True(t, *got[1].State)

	basil, err := repo.ListByCrop(context.Background(), "crop-basil")
	require.NoError(t, err)
	require.Len(t, basil, 1)
	assert.Equal(t, DefaultName, basil[0].Name)

	empty, err := repo.ListByCrop(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestSQLiteRepository_GetState(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name     string
		deviceID string
		want     *State
		wantErr  error
	}{
		{"explicit values", "dev-b", &State{RelayState: true, ControlMode: ControlModeAutomatic}, nil},
		{"null defaults", "dev-a", &State{RelayState: false, ControlMode: ControlModeManual}, nil},
		{"not found", "missing", nil, ErrDeviceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetState(ctx, tt.deviceID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSQLiteRepository_SetControlMode(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SetControlMode(ctx, "dev-a", ControlModeAutomatic))

	state, err := repo.GetState(ctx, "dev-a")
	require.NoError(t, err)
	assert.Equal(t, ControlModeAutomatic, state.ControlMode)

	err = repo.SetControlMode(ctx, "missing", ControlModeManual)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestSQLiteRepository_CriticalTempMin(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	got, err := repo.CriticalTempMin(ctx, "dev-a")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, got, 1e-9)

	_, err = repo.CriticalTempMin(ctx, "dev-c")
	assert.ErrorIs(t, err, ErrNoThreshold, "crop without threshold")

	_, err = repo.CriticalTempMin(ctx, "dev-orphan")
	assert.ErrorIs(t, err, ErrNoThreshold, "device without crop")

	_, err = repo.CriticalTempMin(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoThreshold)
}

func TestSQLiteRepository_Failures(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close() //nolint:errcheck // Test cleanup

	mock.ExpectQuery("SELECT state, control_mode").WillReturnError(errors.New("timeout"))
	mock.ExpectExec("UPDATE devices").WillReturnError(errors.New("locked"))
	mock.ExpectQuery("SELECT c.critical_temp_min").WillReturnError(errors.New("io"))

	repo := NewSQLiteRepository(mockDB)
	ctx := context.Background()

	_, err = repo.GetState(ctx, "dev")
	assert.ErrorContains(t, err, "timeout")
	assert.NotErrorIs(t, err, ErrDeviceNotFound)

	err = repo.SetControlMode(ctx, "dev", ControlModeManual)
	assert.ErrorContains(t, err, "locked")

	_, err = repo.CriticalTempMin(ctx, "dev")
	assert.ErrorContains(t, err, "io")
	assert.NotErrorIs(t, err, ErrNoThreshold)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBigQueryStatements(t *testing.T) {
	wh := warehouse.New(config.WarehouseConfig{Project: "p", Dataset: "d"})
	repo := NewBigQueryRepository(wh, config.TablesConfig{Devices: "devices", Crops: "crops"})

	assert.Contains(t, listByCropQuery(repo.devices), "WHERE crop_id = @crop_id")
	assert.Contains(t, stateQuery(repo.devices), "FROM `p.d.devices`")
	assert.Contains(t, setControlModeStatement(repo.devices), "SET control_mode = @mode")

	q := thresholdQuery(repo.devices, repo.crops)
	assert.Contains(t, q, "FROM `p.d.devices` AS d")
	assert.Contains(t, q, "JOIN `p.d.crops` AS c ON d.crop_id = c.crop_id")
}

func TestSummaryRowDefaults(t *testing.T) {
	s := summaryRow{}.toSummary()
	assert.Equal(t, DefaultName, s.Name)
	assert.Nil(t, s.State)
}
