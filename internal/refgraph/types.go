package refgraph

import (
	"sync"

	"github.com/vk/gobundle/internal/itemid"
)

// Graph is a collection of items and the references between them.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all items in the graph, keyed by their identity.
	nodes map[itemid.ID]*node
}

// node represents a single item in the graph. It is un-exported to
// enforce interaction with the graph via the public API (using IDs),
// not by direct struct manipulation.
type node struct {
	id itemid.ID
	// refs holds the items this item refers to (successors).
	refs map[itemid.ID]*node
	// referrers holds the items that refer to this item (predecessors).
	referrers map[itemid.ID]*node
}
