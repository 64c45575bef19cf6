package farm

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/warehouse"
)

// BigQueryRepository implements Repository against the warehouse dataset.
type BigQueryRepository struct {
	wh    *warehouse.Client
	farms warehouse.TableRef
	crops warehouse.TableRef
}

// NewBigQueryRepository creates a repository over the configured tables.
func NewBigQueryRepository(wh *warehouse.Client, tables config.TablesConfig) *BigQueryRepository {
	return &BigQueryRepository{
		wh:    wh,
		farms: wh.Table(tables.Farms),
		crops: wh.Table(tables.Crops),
	}
}

type farmRow struct {
	FarmID      string              `bigquery:"farm_id"`
	UserUID     string              `bigquery:"user_uid"`
	FarmName    string              `bigquery:"farm_name"`
	ImageURL    bigquery.NullString `bigquery:"image_url"`
	Location    bigquery.NullString `bigquery:"location"`
	Description bigquery.NullString `bigquery:"description"`
	Status      bool                `bigquery:"status"`
}

type summaryRow struct {
	FarmID   string `bigquery:"farm_id"`
	FarmName string `bigquery:"farm_name"`
	ImageURL string `bigquery:"imageUrl"`
}

type cropRow struct {
	CropID   bigquery.NullString `bigquery:"crop_id"`
	FarmID   bigquery.NullString `bigquery:"farm_id"`
	CropName bigquery.NullString `bigquery:"crop_name"`
	ImageURL string              `bigquery:"image_url"`
	Status   bigquery.NullString `bigquery:"status"`
}

func toNullString(s *string) bigquery.NullString {
	if s == nil {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: *s, Valid: true}
}

// Create streams the farm into the farms table.
func (r *BigQueryRepository) Create(ctx context.Context, f *Farm) error {
	row := &farmRow{
		FarmID:      f.ID,
		UserUID:     f.UserUID,
		FarmName:    f.Name,
		ImageURL:    toNullString(f.ImageURL),
		Location:    toNullString(f.Location),
		Description: toNullString(f.Description),
		Status:      f.Status,
	}
	return r.wh.Insert(ctx, r.farms, []*farmRow{row})
}

func listFarmsQuery(farms warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT farm_id, farm_name, IFNULL(image_url, '%s') AS imageUrl
		FROM %s
		WHERE user_uid = @user_uid
		ORDER BY farm_name`, DefaultImageURL, farms.Quoted())
}

func listCropsQuery(crops warehouse.TableRef) string {
	return fmt.Sprintf(`
		SELECT crop_id, farm_id, crop_name, IFNULL(image_url, '%s') AS image_url, status
		FROM %s
		WHERE farm_id = @farm_id
		ORDER BY crop_name`, DefaultImageURL, crops.Quoted())
}

// ListByUser returns the farms owned by userUID ordered by name.
func (r *BigQueryRepository) ListByUser(ctx context.Context, userUID string) ([]Summary, error) {
	it, err := r.wh.Query(ctx, listFarmsQuery(r.farms), []bigquery.QueryParameter{
		{Name: "user_uid", Value: userUID},
	})
	if err != nil {
		return nil, fmt.Errorf("querying farms: %w", err)
	}

	farms := []Summary{}
	for {
		var row summaryRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading farm row: %w", err)
		}
		farms = append(farms, Summary{ID: row.FarmID, Name: row.FarmName, ImageURL: row.ImageURL})
	}
	return farms, nil
}

// ListCrops returns the crops of farmID ordered by name.
func (r *BigQueryRepository) ListCrops(ctx context.Context, farmID string) ([]Crop, error) {
	it, err := r.wh.Query(ctx, listCropsQuery(r.crops), []bigquery.QueryParameter{
		{Name: "farm_id", Value: farmID},
	})
	if err != nil {
		return nil, fmt.Errorf("querying crops: %w", err)
	}

	crops := []Crop{}
	for {
		var row cropRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading crop row: %w", err)
		}
		crops = append(crops, row.toCrop())
	}
	return crops, nil
}

func (row cropRow) toCrop() Crop {
	c := Crop{
		ID:       row.CropID.StringVal,
		FarmID:   row.FarmID.StringVal,
		Name:     DefaultCropName,
		ImageURL: row.ImageURL,
	}
	if row.CropName.Valid {
		c.Name = row.CropName.StringVal
	}
	if row.Status.Valid {
		status := row.Status.StringVal
		c.Status = &status
	}
	return c
}
