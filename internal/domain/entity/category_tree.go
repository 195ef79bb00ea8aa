package entity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UncategorizedPath is the hierarchy label used for movements without a category.
const UncategorizedPath = "Non categorizzato"

// PathSeparator joins names in a hierarchy path.
const PathSeparator = " > "

// CategoryTree is a read-only view of the category chart.
// Nodes live in a flat arena and refer to each other by index; build it once
// per request from the repository's flat list and query it as many times as needed.
type CategoryTree struct {
	nodes []categoryNode
	index map[uuid.UUID]int
	roots []int
}

type categoryNode struct {
	category *Category
	parent   int
	children []int
}

// CategoryNode is a nested view of a subtree, used for listings.
type CategoryNode struct {
	Category *Category
	Path     string
	Children []*CategoryNode
}

// NewCategoryTree builds the arena from a flat list with parent pointers.
// Nodes whose parent is missing from the list are skipped with their descendants.
func NewCategoryTree(categories []*Category) *CategoryTree {
	sorted := attached(categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level < sorted[j].Level
		}
		if sorted[i].Code != sorted[j].Code {
			return sorted[i].Code < sorted[j].Code
		}
		return sorted[i].Name < sorted[j].Name
	})

	t := &CategoryTree{
		nodes: make([]categoryNode, len(sorted)),
		index: make(map[uuid.UUID]int, len(sorted)),
	}
	for i, c := range sorted {
		t.nodes[i] = categoryNode{category: c, parent: -1}
		t.index[c.ID] = i
	}
	for i, c := range sorted {
		if c.ParentID == nil {
			t.roots = append(t.roots, i)
			continue
		}
		p := t.index[*c.ParentID]
		t.nodes[i].parent = p
		t.nodes[p].children = append(t.nodes[p].children, i)
	}

	return t
}

// attached drops categories whose ancestor chain does not reach a root,
// so only level-1 categories are ever roots of the tree.
func attached(categories []*Category) []*Category {
	byID := make(map[uuid.UUID]*Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	reachable := make(map[uuid.UUID]bool, len(categories))
	var reaches func(c *Category, depth int) bool
	reaches = func(c *Category, depth int) bool {
		if ok, seen := reachable[c.ID]; seen {
			return ok
		}
		ok := false
		switch {
		case c.ParentID == nil:
			ok = true
		case depth < int(MaxCategoryLevel):
			if parent, found := byID[*c.ParentID]; found {
				ok = reaches(parent, depth+1)
			}
		}
		reachable[c.ID] = ok
		return ok
	}

	out := make([]*Category, 0, len(categories))
	for _, c := range categories {
		if reaches(c, 1) {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of nodes.
func (t *CategoryTree) Len() int {
	return len(t.nodes)
}

// Get returns the category with the given id.
func (t *CategoryTree) Get(id uuid.UUID) (*Category, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i].category, true
}

// ChildrenOf returns the direct children of id.
func (t *CategoryTree) ChildrenOf(id uuid.UUID) ([]*Category, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	children := make([]*Category, 0, len(t.nodes[i].children))
	for _, c := range t.nodes[i].children {
		children = append(children, t.nodes[c].category)
	}
	return children, true
}

// AncestorsOf returns the ancestors of id ordered from the root down to the direct parent.
func (t *CategoryTree) AncestorsOf(id uuid.UUID) ([]*Category, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	var ancestors []*Category
	for p := t.nodes[i].parent; p >= 0; p = t.nodes[p].parent {
		ancestors = append(ancestors, t.nodes[p].category)
	}
	for l, r := 0, len(ancestors)-1; l < r; l, r = l+1, r-1 {
		ancestors[l], ancestors[r] = ancestors[r], ancestors[l]
	}
	return ancestors, true
}

// RootsOf returns the level-1 categories, optionally restricted to a movement type.
func (t *CategoryTree) RootsOf(movementType *MovementType) []*Category {
	roots := make([]*Category, 0, len(t.roots))
	for _, r := range t.roots {
		c := t.nodes[r].category
		if movementType != nil && c.Type != *movementType {
			continue
		}
		roots = append(roots, c)
	}
	return roots
}

// RootOf returns the level-1 ancestor of id, or the node itself when it is a root.
func (t *CategoryTree) RootOf(id uuid.UUID) (*Category, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	for t.nodes[i].parent >= 0 {
		i = t.nodes[i].parent
	}
	return t.nodes[i].category, true
}

// Subtree returns id followed by all of its descendants in pre-order.
func (t *CategoryTree) Subtree(id uuid.UUID) ([]uuid.UUID, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	var ids []uuid.UUID
	stack := []int{i}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, t.nodes[n].category.ID)
		children := t.nodes[n].children
		for c := len(children) - 1; c >= 0; c-- {
			stack = append(stack, children[c])
		}
	}
	return ids, true
}

// ExpandSelection returns the selected ids plus all of their descendants, without
// duplicates and in tree order. Ids unknown to the tree are returned separately.
func (t *CategoryTree) ExpandSelection(ids []uuid.UUID) (expanded []uuid.UUID, unknown []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		subtree, ok := t.Subtree(id)
		if !ok {
			seen[id] = struct{}{}
			unknown = append(unknown, id)
			continue
		}
		for _, s := range subtree {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			expanded = append(expanded, s)
		}
	}
	return expanded, unknown
}

// Path returns the names from the root down to id joined by PathSeparator.
func (t *CategoryTree) Path(id uuid.UUID) string {
	c, ok := t.Get(id)
	if !ok {
		return UncategorizedPath
	}
	ancestors, _ := t.AncestorsOf(id)
	names := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		names = append(names, a.Name)
	}
	names = append(names, c.Name)
	return strings.Join(names, PathSeparator)
}

// Forest returns nested nodes for every root, optionally restricted to a movement type.
func (t *CategoryTree) Forest(movementType *MovementType) []*CategoryNode {
	forest := make([]*CategoryNode, 0, len(t.roots))
	for _, r := range t.roots {
		if movementType != nil && t.nodes[r].category.Type != *movementType {
			continue
		}
		forest = append(forest, t.nest(r, ""))
	}
	return forest
}

func (t *CategoryTree) nest(i int, prefix string) *CategoryNode {
	c := t.nodes[i].category
	path := c.Name
	if prefix != "" {
		path = prefix + PathSeparator + c.Name
	}
	node := &CategoryNode{
		Category: c,
		Path:     path,
		Children: make([]*CategoryNode, 0, len(t.nodes[i].children)),
	}
	for _, child := range t.nodes[i].children {
		node.Children = append(node.Children, t.nest(child, path))
	}
	return node
}

// NextCode returns the next progressive sibling code ("001", "002", ...) for a new node
// under parentID, or for a new root of the given type when parentID is nil.
func (t *CategoryTree) NextCode(parentID *uuid.UUID, movementType MovementType) string {
	var siblings []int
	if parentID == nil {
		for _, r := range t.roots {
			if t.nodes[r].category.Type == movementType {
				siblings = append(siblings, r)
			}
		}
	} else if p, ok := t.index[*parentID]; ok {
		siblings = t.nodes[p].children
	}

	highest := 0
	for _, s := range siblings {
		if n, err := strconv.Atoi(t.nodes[s].category.Code); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%03d", highest+1)
}
