// Package faiss reads FAISS index files for bulk vector extraction.
//
// The decoder understands the serialization produced by faiss.write_index:
// the flat index family is decoded fully and supports per-position
// reconstruction; IDMap and HNSW wrappers are unwrapped down to their
// storage; every other index kind is accepted header-only, yielding the
// declared dimension and total count with zero-filled placeholder vectors.
// Similarity search is out of scope - positions are read back in store order,
// nothing is ever written.
package faiss
