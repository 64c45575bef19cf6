package warehouse

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/DiegoFarias19/GrowingAPP/internal/infrastructure/config"
)

// TableRef is a fully-qualified BigQuery table.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

// Quoted returns the `project.dataset.table` form used in SQL text.
func (r TableRef) Quoted() string {
	return fmt.Sprintf("`%s.%s.%s`", r.Project, r.Dataset, r.Table)
}

// Client is a lazily-connected BigQuery handle.
//
// Thread Safety:
//   - All methods are safe for concurrent use. The underlying client is
//     read-only after construction.
type Client struct {
	project       string
	dataset       string
	legacyDataset string
	opts          []option.ClientOption

	once sync.Once
	mu   sync.Mutex
	bq   *bigquery.Client
	err  error
}

// New returns a handle for the configured project. No connection is made
// until the first query or insert.
//
// Parameters:
//   - cfg: Warehouse configuration
//   - opts: Extra client options (endpoint, credentials), mainly for tests
func New(cfg config.WarehouseConfig, opts ...option.ClientOption) *Client {
	return &Client{
		project:       cfg.Project,
		dataset:       cfg.Dataset,
		legacyDataset: cfg.LegacyDatasetOrDefault(),
		opts:          opts,
	}
}

// Table returns the reference for a table in the main dataset.
func (c *Client) Table(name string) TableRef {
	return TableRef{Project: c.project, Dataset: c.dataset, Table: name}
}

// LegacyTable returns the reference for a table in the phase-1 dataset.
func (c *Client) LegacyTable(name string) TableRef {
	return TableRef{Project: c.project, Dataset: c.legacyDataset, Table: name}
}

// BigQuery returns the shared client, creating it on first call.
// A construction error is sticky: later calls return the same error.
func (c *Client) BigQuery(ctx context.Context) (*bigquery.Client, error) {
	c.once.Do(func() {
		// The client outlives the request that happened to create it.
		bq, err := bigquery.NewClient(context.WithoutCancel(ctx), c.project, c.opts...)
		c.mu.Lock()
		c.bq, c.err = bq, err
		c.mu.Unlock()
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, fmt.Errorf("creating bigquery client: %w", c.err)
	}
	if c.bq == nil {
		return nil, ErrClosed
	}
	return c.bq, nil
}

// Query runs a read query with named parameters (@name in SQL).
//
// Parameters:
//   - ctx: Context for the query job
//   - sql: Standard SQL text
//   - params: Named parameters, may be nil
//
// Returns:
//   - *bigquery.RowIterator: Iterator over the result rows
//   - error: If the client cannot be created or the job fails
func (c *Client) Query(ctx context.Context, sql string, params []bigquery.QueryParameter) (*bigquery.RowIterator, error) {
	bq, err := c.BigQuery(ctx)
	if err != nil {
		return nil, err
	}

	q := bq.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("running query: %w", err)
	}
	return it, nil
}

// Exec runs a DML statement and returns the number of affected rows.
func (c *Client) Exec(ctx context.Context, sql string, params []bigquery.QueryParameter) (int64, error) {
	bq, err := c.BigQuery(ctx)
	if err != nil {
		return 0, err
	}

	q := bq.Query(sql)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting DML job: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("waiting for DML job: %w", err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("DML job failed: %w", err)
	}

	if status.Statistics != nil {
		if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
			return qs.NumDMLAffectedRows, nil
		}
	}
	return 0, nil
}

// Insert streams rows into a table. rows is anything bigquery.Inserter.Put
// accepts: a struct, a slice of structs, or ValueSavers.
// Per-row failures come back as bigquery.PutMultiError; see RowErrors.
func (c *Client) Insert(ctx context.Context, ref TableRef, rows any) error {
	bq, err := c.BigQuery(ctx)
	if err != nil {
		return err
	}

	inserter := bq.DatasetInProject(ref.Project, ref.Dataset).Table(ref.Table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("inserting into %s: %w", ref.Table, err)
	}
	return nil
}

// HealthCheck runs a trivial query.
func (c *Client) HealthCheck(ctx context.Context) error {
	it, err := c.Query(ctx, "SELECT 1", nil)
	if err != nil {
		return fmt.Errorf("warehouse health check failed: %w", err)
	}

	var row []bigquery.Value
	if err := it.Next(&row); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("warehouse health check failed: %w", err)
	}
	return nil
}

// Close releases the client if it was ever created.
func (c *Client) Close() error {
	c.once.Do(func() {}) // a never-used handle stays unconnected

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bq == nil {
		return nil
	}
	err := c.bq.Close()
	c.bq = nil
	if err != nil {
		return fmt.Errorf("closing bigquery client: %w", err)
	}
	return nil
}
