// Package graph holds the symbol graph of one documentation run: compounds,
// members, namespaces, files, directories, pages and groups, stored in arenas
// and addressed by typed handles.
//
// # Lifecycle
//
// A Graph is built by a single goroutine. Entries are turned into definitions,
// resolution passes link them (inheritance, template instances, categories,
// usage, group ownership) and then Freeze hands the graph to readers. Readers
// never mutate; mutators called after Freeze are refused and reported as
// internal errors.
//
// # Error handling
//
// Mutators never fail. Ambiguities are reported and resolved by keeping the
// first-seen candidate; structurally invalid requests (self inheritance, group
// cycles) are dropped with a warning; unknown member kinds are kept in the
// all-members index only.
package graph

import "errors"

var (
	// ErrGraphFrozen is recorded when a mutation is attempted after Freeze.
	ErrGraphFrozen = errors.New("graph is frozen")

	// ErrUnknownHandle is returned by lookups given a handle outside the arena.
	ErrUnknownHandle = errors.New("unknown handle")
)

// maxInheritanceDepth bounds IsBaseClass/IsSubClass recursion on malformed input.
const maxInheritanceDepth = 256

// maxGroupDepth bounds ContainsGroup recursion.
const maxGroupDepth = 256
