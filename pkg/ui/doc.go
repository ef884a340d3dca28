// Package ui defines the immutable element model: the declarative
// description of what should exist in the host tree. Elements carry a tag
// or component reference, properties, and children — and no behavior.
// Constructing an element never executes component functions.
package ui
