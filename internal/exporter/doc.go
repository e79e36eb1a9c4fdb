// Package exporter writes pipeline outputs as flat delimited files, JSON
// reports, and the plain-text quality report.
package exporter
