// Package parallel runs per-item backend calls with bounded concurrency.
//
// It backs the bulk actions over a selection of cards: every id gets exactly
// one Result, including ids skipped after cancellation.
package parallel
