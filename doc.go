// trainprep prepares image datasets for a classification model: it
// discovers images on disk, resizes and normalizes them into numeric
// tensors, assembles labeled training batches, and preprocesses single
// images for inference.
package main
