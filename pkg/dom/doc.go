// Package dom defines the abstract host tree the rendering core mutates.
//
// The core never talks to a concrete platform directly. Everything it needs
// from the host — node creation, attribute and text updates, child
// insertion and removal, event registration — goes through the Adapter
// interface. A browser DOM bridge, a terminal surface, or the in-memory
// implementation in the memdom subpackage all qualify as hosts.
package dom
