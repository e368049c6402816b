// Package jobstore implements jobs.Store on top of a JSONL file, SQLite and
// PostgreSQL. New picks the backend named in the configuration.
package jobstore
