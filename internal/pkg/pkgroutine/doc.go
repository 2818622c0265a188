// Package pkgroutine runs background work in goroutines with a bounded
// concurrency limit, panic recovery, and error collection. The dataset
// module's eviction-audit consumer runs its workers through the Manager so
// shutdown can wait for them.
package pkgroutine
