// Package tensor provides the numeric containers the preprocessing
// pipeline produces: single images as channel-last float32 tensors,
// stacked image batches, and one-hot label batches.
//
// Tensors track whether pixel values have been normalized from the raw
// [0, 255] range into [0, 1]; stacking refuses to mix the two states.
package tensor
