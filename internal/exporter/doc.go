// Package exporter writes parsed statement data as CSV reports: position
// snapshots, bank transactions and the cumulative import run log. Files
// get a UTF-8 BOM so Excel renders umlauts correctly.
package exporter
