// Package codec decodes image files into fixed-size numeric tensors.
//
// Decoding resizes to the exact target dimensions (aspect-distorting,
// no crop or pad) and produces raw pixel values in [0, 255];
// normalization is a separate, explicit step owned by the caller. An
// optional libvips fast path shrinks images at decode time, falling
// back to the pure-Go imaging path when libvips is unavailable.
package codec
