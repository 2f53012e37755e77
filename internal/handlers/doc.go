// Package handlers implements the HTTP API of the training data
// preparation service: health and version probes, dataset class and
// snapshot queries, single-image preprocessing uploads, and the
// unrelated text schema validation endpoint.
package handlers
