package warehouse

import (
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// ErrClosed is returned when the handle is used after Close.
var ErrClosed = errors.New("warehouse: client closed")

// RowErrors flattens a streaming-insert failure into one message per
// failed row. Errors that are not per-row failures yield a single message.
func RowErrors(err error) []string {
	if err == nil {
		return nil
	}

	var multi bigquery.PutMultiError
	if !errors.As(err, &multi) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(multi))
	for _, rowErr := range multi {
		out = append(out, fmt.Sprintf("row %d: %v", rowErr.RowIndex, rowErr.Errors))
	}
	return out
}
