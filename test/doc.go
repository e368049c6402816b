// Package test holds integration tests that run the infrastructure adapters
// against real brokers and databases started with testcontainers. They are
// skipped when Docker is not available or when running with -short.
package test
