// Package sqlite provides the SQLite-backed storage adapter.
//
// A single Store owns the database connection and hands out wrapper types
// implementing the document, topic and temporal store ports, plus the
// run committer that applies a whole retrain in one transaction.
// Embedding vectors are stored as little-endian float32 blobs; keyword and
// signature lists as JSON text columns.
package sqlite
