// Package types defines the shared Go types handed from the importer to its
// callers. Observation is the canonical in-memory record produced for every
// sample of an imported range query, independent of any output encoding.
package types
