// Package schema holds the trivial request-validation checks used by
// the HTTP layer. It is deliberately separate from the preprocessing
// core: rejecting a blank field is not a pipeline concern.
package schema
