// Package output renders debounced event batches for human and machine
// consumers. It provides pluggable encoders (colored text, NDJSON, YAML)
// behind a format registry, and writers for stdout and append-mode files.
package output
