// Package dataprocessing implements the core grant-funding pipeline: currency
// normalization, program categorization, data-quality validation, outlier
// detection, state-level aggregation, and merging with external health
// outcome tables.
//
// Every operation in this package is a deterministic, side-effect-free
// transformation over in-memory snapshots. Parse failures degrade to missing
// values rather than errors; the only signaled failures are an invalid
// outlier-method selector and a merge against a health table that lacks the
// expected indicator column.
package dataprocessing
