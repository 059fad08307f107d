// Package chroma reads embedded collection databases for bulk vector
// extraction.
//
// The store is a directory holding a chroma.sqlite3 database. Collections,
// their metadata-segment item rows and per-item key/value metadata are read
// straight from the tables; vector blobs come from the embedded write queue,
// raw little-endian float32. Only the first collection in native listing
// order is used - an explicit scope limitation, not a bug.
package chroma
