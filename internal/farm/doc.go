// Package farm manages farms and the crops planted on them.
//
// Farms are owned by a user (the app's auth uid) and are listed by that
// uid. Crops belong to a farm and carry the critical temperature band read
// by the controller through the device package.
//
// # Storage
//
// Repository has two implementations:
//   - BigQueryRepository for production (the warehouse dataset)
//   - SQLiteRepository for local development and tests
//
// Both apply the same read defaults: a missing image becomes
// DefaultImageURL and a missing crop name becomes DefaultCropName.
package farm
