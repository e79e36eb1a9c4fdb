// Package http exposes the pipeline outputs as a read-only JSON API for the
// rendering frontend: state funding summaries, the merged funding/health
// table, the data-quality report, and on-demand outlier flags.
package http
