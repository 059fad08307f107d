// Package testutil builds on-disk vector store fixtures for tests: flat
// index files, serialized docstore companions and collection store databases.
package testutil
