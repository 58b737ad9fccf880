// Package taxonomy builds an immutable taxonomy tree from a flat
// parent-pointer table.
//
// Nodes are kept in an arena indexed by taxon ID. The tree is built in two
// passes: all records are registered first and parent/child links are
// resolved afterwards, so the table does not need parents to precede their
// children. After Build returns the tree is never modified and can be shared
// by any number of readers.
package taxonomy

import (
	"iter"
)

// RootID is the taxon ID of the root of every taxonomy.
const RootID = "1"

// UnclassifiedID is the reserved taxon ID of unclassified reads. It is never
// part of a tree.
const UnclassifiedID = "0"

// Record is one row of a taxonomy table.
type Record struct {
	TaxonID  string
	ParentID string
	Rank     string
	Depth    int
	Name     string
}

// Node is a taxon of the tree as seen by callers.
type Node struct {
	// TaxonID is the unique identifier of the taxon.
	TaxonID string
	// ParentID is empty for the root.
	ParentID string
	// Rank is a short rank code, for example 'S' for species.
	Rank string
	// Depth is the level of the taxon as given by the table. It is used for
	// indentation of reports.
	Depth int
	// Name is the display name of the taxon.
	Name string
}

type node struct {
	Node
	parent   int
	children []int
}

// Tree is a taxonomy built by Build.
type Tree struct {
	nodes    []node
	index    map[string]int
	root     int
	maxDepth int
}

// Build creates a tree from taxonomy records. The record with RootID
// becomes the root, its parent field is ignored. Every other record must
// reference a parent that exists somewhere in the records.
func Build(records []Record) (*Tree, error) {
	t := &Tree{
		nodes: make([]node, 0, len(records)),
		index: make(map[string]int, len(records)),
		root:  -1,
	}

	for _, r := range records {
		if r.TaxonID == "" {
			return nil, EmptyTaxonIDError(r.Name)
		}
		if _, ok := t.index[r.TaxonID]; ok {
			return nil, DuplicateTaxonError(r.TaxonID)
		}

		n := node{
			Node: Node{
				TaxonID:  r.TaxonID,
				ParentID: r.ParentID,
				Rank:     r.Rank,
				Depth:    r.Depth,
				Name:     r.Name,
			},
			parent: -1,
		}
		if r.TaxonID == RootID {
			n.ParentID = ""
			t.root = len(t.nodes)
		}
		t.index[r.TaxonID] = len(t.nodes)
		t.nodes = append(t.nodes, n)
		t.maxDepth = max(t.maxDepth, r.Depth)
	}

	if t.root < 0 {
		return nil, NoRootError()
	}

	for i := range t.nodes {
		if i == t.root {
			continue
		}
		n := &t.nodes[i]
		p, ok := t.index[n.ParentID]
		if !ok {
			return nil, MissingParentError(n.TaxonID, n.ParentID)
		}
		n.parent = p
		t.nodes[p].children = append(t.nodes[p].children, i)
	}

	if err := t.checkConnected(); err != nil {
		return nil, err
	}

	return t, nil
}

// checkConnected makes sure every node descends from the root. With one
// parent per node the only way to miss the root is a cycle.
func (t *Tree) checkConnected() error {
	seen := make([]bool, len(t.nodes))
	stack := []int{t.root}
	var count int
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seen[i] = true
		count++
		stack = append(stack, t.nodes[i].children...)
	}
	if count == len(t.nodes) {
		return nil
	}
	for i := range t.nodes {
		if !seen[i] {
			return DisconnectedTaxonError(t.nodes[i].TaxonID)
		}
	}
	return nil
}

// Len returns the number of taxa in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// MaxDepth returns the largest depth found in the taxonomy table.
func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return t.nodes[t.root].Node
}

// Lookup returns the node of a taxon ID.
func (t *Tree) Lookup(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[i].Node, true
}

// Parent returns the parent of a taxon. It returns false for the root
// and for unknown IDs.
func (t *Tree) Parent(id string) (Node, bool) {
	i, ok := t.index[id]
	if !ok || t.nodes[i].parent < 0 {
		return Node{}, false
	}
	return t.nodes[t.nodes[i].parent].Node, true
}

// Children returns children of a taxon in the order they appeared in the
// taxonomy table.
func (t *Tree) Children(id string) []Node {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	kids := t.nodes[i].children
	res := make([]Node, len(kids))
	for j, k := range kids {
		res[j] = t.nodes[k].Node
	}
	return res
}

// Ancestors iterates over the parent chain of a taxon, starting with its
// parent and ending with the root. The taxon itself is not included.
func (t *Tree) Ancestors(id string) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		i, ok := t.index[id]
		if !ok {
			return
		}
		for p := t.nodes[i].parent; p >= 0; p = t.nodes[p].parent {
			if !yield(t.nodes[p].Node) {
				return
			}
		}
	}
}
