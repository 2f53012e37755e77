// Package augment provides the named augmentation policies (train, val,
// test) applied to decoded tensors before batching. The batch generator
// consumes policies purely through the Policy interface; which variant
// runs is decided by explicit injection, never by ambient context.
package augment
