// Package model defines the canonical record and dataset shapes that every
// store backend is normalized into.
package model
