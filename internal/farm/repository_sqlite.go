package farm

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteRepository implements Repository using the local SQLite schema.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a new farm.
func (r *SQLiteRepository) Create(ctx context.Context, f *Farm) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO farms (farm_id, user_uid, farm_name, image_url, location, description, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.UserUID, f.Name, f.ImageURL, f.Location, f.Description, f.Status,
	)
	if err != nil {
		return fmt.Errorf("inserting farm: %w", err)
	}
	return nil
}

// ListByUser returns the farms owned by userUID ordered by name.
func (r *SQLiteRepository) ListByUser(ctx context.Context, userUID string) ([]Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT farm_id, farm_name, IFNULL(image_url, ?) AS imageUrl
		FROM farms
		WHERE user_uid = ?
		ORDER BY farm_name`,
		DefaultImageURL, userUID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying farms: %w", err)
	}
	defer rows.Close()

	farms := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("scanning farm: %w", err)
		}
		farms = append(farms, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating farms: %w", err)
	}
	return farms, nil
}

// ListCrops returns the crops of farmID ordered by name.
func (r *SQLiteRepository) ListCrops(ctx context.Context, farmID string) ([]Crop, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT crop_id, farm_id, crop_name, IFNULL(image_url, ?), status
		FROM crops
		WHERE farm_id = ?
		ORDER BY crop_name`,
		DefaultImageURL, farmID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying crops: %w", err)
	}
	defer rows.Close()

	crops := []Crop{}
	for rows.Next() {
		var (
			c      Crop
			name   sql.NullString
			status sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.FarmID, &name, &c.ImageURL, &status); err != nil {
			return nil, fmt.Errorf("scanning crop: %w", err)
		}
		c.Name = DefaultCropName
		if name.Valid {
			c.Name = name.String
		}
		if status.Valid {
			c.Status = &status.String
		}
		crops = append(crops, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating crops: %w", err)
	}
	return crops, nil
}
