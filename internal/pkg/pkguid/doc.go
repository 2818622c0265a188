// Package pkguid provides unique ID generation.
//
// UUIDs (v7) are used for correlation and event IDs; Snowflake IDs provide
// monotonically increasing int64 identifiers for dataset records.
package pkguid
