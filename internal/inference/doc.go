// Package inference prepares single images for prediction by an
// external classifier: resize, normalize, and wrap in a one-element
// batch. No augmentation, no randomness.
package inference
