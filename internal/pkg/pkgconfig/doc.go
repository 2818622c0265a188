// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface so it stays easy to test and
// does not care where values come from (file, env, etc). The concrete
// implementation is backed by Viper and supports convenience getters for
// common types plus simple decoding rules (comma-separated arrays, "k:v"
// pair maps).
package pkgconfig
