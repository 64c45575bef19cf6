// Package warehouse provides the BigQuery handle shared by the domain
// repositories.
//
// The underlying *bigquery.Client is created on first use and reused for
// the life of the process. Cold Cloud Run instances that only answer
// OPTIONS preflights or validation errors never dial BigQuery.
//
// Usage:
//
//	wh := warehouse.New(cfg.Warehouse)
//	defer wh.Close()
//
//	it, err := wh.Query(ctx, "SELECT farm_id FROM "+wh.Table(cfg.Warehouse.Tables.Farms).Quoted(), nil)
package warehouse
