// Package batch assembles labeled training batches from a dataset on
// disk.
//
// A Source resolves the class index and the explicit (path, classIndex)
// list exactly once; Generators minted from a source pull an infinite,
// restartable sequence of (image batch, one-hot label batch) pairs,
// wrapping at epoch boundaries. The pull model is synchronous and
// single-threaded: each Next call does its file I/O and decoding on the
// calling goroutine, and prefetching is left to the training loop.
package batch
