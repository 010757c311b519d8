// Package cli implements userctl, an interactive admin console for the
// broker. It reads commands from stdin, calls the HTTP API and prints
// results as aligned tables.
package cli
