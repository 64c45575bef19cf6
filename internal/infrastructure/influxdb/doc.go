// Package influxdb mirrors sensor readings into InfluxDB.
//
// The warehouse stays the system of record. When influxdb.enabled is set,
// every reading accepted by the ingestion functions is also written here
// for dashboards that want a time-series source.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.WriteReading("thing-01", "temperature", 21.5, time.Now())
//
// Writes are non-blocking and batched (batch_size, flush_interval). Batch
// failures are delivered to the SetOnError callback.
package influxdb
