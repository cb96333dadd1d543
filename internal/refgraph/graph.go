package refgraph

import (
	"fmt"

	"github.com/vk/gobundle/internal/itemid"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[itemid.ID]*node),
	}
}

// AddNode adds a new item to the graph. If the item already exists, the
// function does nothing.
func (g *Graph) AddNode(id itemid.ID) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.addNodeLocked(id)
}

func (g *Graph) addNodeLocked(id itemid.ID) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{
		id:        id,
		refs:      make(map[itemid.ID]*node),
		referrers: make(map[itemid.ID]*node),
	}
	g.nodes[id] = n
	return n
}

// AddEdge records that `fromID` refers to `toID`. Missing endpoints are
// created. Self references (recursion) carry no information for
// reachability and are dropped.
func (g *Graph) AddEdge(fromID, toID itemid.ID) {
	if fromID == toID {
		return
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	from := g.addNodeLocked(fromID)
	to := g.addNodeLocked(toID)
	from.refs[toID] = to
	to.referrers[fromID] = from
}

// Has reports whether the item is part of the graph.
func (g *Graph) Has(id itemid.ID) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of items in the graph.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// References returns the items the given item refers to, in canonical order.
func (g *Graph) References(id itemid.ID) ([]itemid.ID, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("item not found: %s", id)
	}
	return sortedKeys(n.refs), nil
}

// Referrers returns the items that refer to the given item, in canonical order.
func (g *Graph) Referrers(id itemid.ID) ([]itemid.ID, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("item not found: %s", id)
	}
	return sortedKeys(n.referrers), nil
}

// PathTo returns the shortest reference chain from any of the roots to
// target, both ends included. Ties are broken by canonical ID order so the
// answer is stable across runs. It returns an error when target is not
// reachable from the roots.
func (g *Graph) PathTo(roots []itemid.ID, target itemid.ID) ([]itemid.ID, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	if _, ok := g.nodes[target]; !ok {
		return nil, fmt.Errorf("item not found: %s", target)
	}

	parent := make(map[itemid.ID]itemid.ID)
	visited := make(map[itemid.ID]bool)
	var queue []itemid.ID

	sortedRoots := append([]itemid.ID(nil), roots...)
	itemid.Sort(sortedRoots)
	for _, r := range sortedRoots {
		if _, ok := g.nodes[r]; !ok || visited[r] {
			continue
		}
		visited[r] = true
		queue = append(queue, r)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == target {
			path := []itemid.ID{cur}
			for {
				p, ok := parent[cur]
				if !ok {
					break
				}
				path = append(path, p)
				cur = p
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, nil
		}
		for _, next := range sortedKeys(g.nodes[cur].refs) {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	return nil, fmt.Errorf("item %s is not reachable from the entry point", target)
}

func sortedKeys(m map[itemid.ID]*node) []itemid.ID {
	ids := make([]itemid.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	itemid.Sort(ids)
	return ids
}
