// Package parallel runs independent per-piece work on a fixed pool of
// goroutines and provides a join barrier over a batch of tasks.
package parallel
