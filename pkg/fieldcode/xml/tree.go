package xml

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// WordprocessingNamespace is the main WordprocessingML namespace (prefix w)
const WordprocessingNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// W returns a name in the WordprocessingML namespace
func W(local string) xml.Name {
	return xml.Name{Space: WordprocessingNamespace, Local: local}
}

const none int32 = -1

type node struct {
	kind  Kind
	name  xml.Name
	attrs []xml.Attr
	text  string

	parent int32
	first  int32
	last   int32
	prev   int32
	next   int32

	gen  uint32
	live bool
}

// Tree is an arena of document nodes. The zero value is not usable; call NewTree or Parse.
//
// A Tree is not safe for concurrent mutation. Concurrent readers are fine as
// long as nobody edits the tree at the same time.
type Tree struct {
	nodes []node
	free  []int32
	root  int32
	live  int
}

// NewTree returns an empty tree without a root
func NewTree() *Tree {
	return &Tree{root: none}
}

func (t *Tree) alloc(kind Kind, name xml.Name, attrs []xml.Attr) int32 {
	n := node{
		kind:   kind,
		name:   name,
		attrs:  attrs,
		parent: none,
		first:  none,
		last:   none,
		prev:   none,
		next:   none,
		live:   true,
	}
	t.live++
	if k := len(t.free); k > 0 {
		idx := t.free[k-1]
		t.free = t.free[:k-1]
		n.gen = t.nodes[idx].gen
		t.nodes[idx] = n
		return idx
	}
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// lookup resolves a handle to its slot, or none if the handle is stale
func (t *Tree) lookup(id NodeID) int32 {
	if id == NoNode {
		return none
	}
	idx := id.index()
	if idx < 0 || int(idx) >= len(t.nodes) {
		return none
	}
	n := &t.nodes[idx]
	if !n.live || n.gen != id.generation() {
		return none
	}
	return idx
}

func (t *Tree) id(idx int32) NodeID {
	if idx == none {
		return NoNode
	}
	return makeNodeID(idx, t.nodes[idx].gen)
}

// NewElement creates a detached element. Its kind is derived from the local name.
func (t *Tree) NewElement(name xml.Name, attrs ...xml.Attr) NodeID {
	copied := make([]xml.Attr, len(attrs))
	copy(copied, attrs)
	return t.id(t.alloc(kindForLocal(name.Local), name, copied))
}

// NewTextElement creates a detached element holding character data, such as w:t or w:instrText
func (t *Tree) NewTextElement(name xml.Name, text string) NodeID {
	idx := t.alloc(kindForLocal(name.Local), name, nil)
	t.nodes[idx].text = text
	return t.id(idx)
}

// SetRoot makes a detached node the root of the tree
func (t *Tree) SetRoot(id NodeID) error {
	idx := t.lookup(id)
	if idx == none {
		return fmt.Errorf("set root %s: %w", id, ErrInvalidNode)
	}
	if t.nodes[idx].parent != none {
		return fmt.Errorf("set root %s: node is attached", id)
	}
	t.root = idx
	return nil
}

// Root returns the root node, or NoNode for an empty tree
func (t *Tree) Root() NodeID {
	return t.id(t.root)
}

// Len returns the number of live nodes
func (t *Tree) Len() int {
	return t.live
}

// Valid reports whether id refers to a live node of this tree
func (t *Tree) Valid(id NodeID) bool {
	return t.lookup(id) != none
}

// Kind returns the kind of a node (KindElement for stale handles)
func (t *Tree) Kind(id NodeID) Kind {
	if idx := t.lookup(id); idx != none {
		return t.nodes[idx].kind
	}
	return KindElement
}

// Name returns the element name of a node
func (t *Tree) Name(id NodeID) xml.Name {
	if idx := t.lookup(id); idx != none {
		return t.nodes[idx].name
	}
	return xml.Name{}
}

// Attr returns the value of the first attribute with the given local name
func (t *Tree) Attr(id NodeID, local string) (string, bool) {
	idx := t.lookup(id)
	if idx == none {
		return "", false
	}
	for _, a := range t.nodes[idx].attrs {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// Attrs returns a copy of the attributes of a node
func (t *Tree) Attrs(id NodeID) []xml.Attr {
	idx := t.lookup(id)
	if idx == none {
		return nil
	}
	out := make([]xml.Attr, len(t.nodes[idx].attrs))
	copy(out, t.nodes[idx].attrs)
	return out
}

// FieldCharType returns the w:fldCharType of a field character node
func (t *Tree) FieldCharType(id NodeID) FieldCharType {
	if t.Kind(id) != KindFieldChar {
		return FieldCharUnknown
	}
	val, _ := t.Attr(id, "fldCharType")
	return parseFieldCharType(val)
}

// Text returns the character data held directly by a node
func (t *Tree) Text(id NodeID) string {
	if idx := t.lookup(id); idx != none {
		return t.nodes[idx].text
	}
	return ""
}

// SetText replaces the character data held directly by a node
func (t *Tree) SetText(id NodeID, text string) error {
	idx := t.lookup(id)
	if idx == none {
		return fmt.Errorf("set text %s: %w", id, ErrInvalidNode)
	}
	t.nodes[idx].text = text
	return nil
}

// InnerText returns the character data of a node and all its descendants in document order
func (t *Tree) InnerText(id NodeID) string {
	idx := t.lookup(id)
	if idx == none {
		return ""
	}
	var b strings.Builder
	t.walk(idx, true, func(i int32) bool {
		b.WriteString(t.nodes[i].text)
		return true
	})
	return b.String()
}

// Parent returns the parent of a node
func (t *Tree) Parent(id NodeID) NodeID {
	if idx := t.lookup(id); idx != none {
		return t.id(t.nodes[idx].parent)
	}
	return NoNode
}

// FirstChild returns the first child of a node
func (t *Tree) FirstChild(id NodeID) NodeID {
	if idx := t.lookup(id); idx != none {
		return t.id(t.nodes[idx].first)
	}
	return NoNode
}

// LastChild returns the last child of a node
func (t *Tree) LastChild(id NodeID) NodeID {
	if idx := t.lookup(id); idx != none {
		return t.id(t.nodes[idx].last)
	}
	return NoNode
}

// NextSibling returns the following sibling of a node
func (t *Tree) NextSibling(id NodeID) NodeID {
	if idx := t.lookup(id); idx != none {
		return t.id(t.nodes[idx].next)
	}
	return NoNode
}

// PrevSibling returns the preceding sibling of a node
func (t *Tree) PrevSibling(id NodeID) NodeID {
	if idx := t.lookup(id); idx != none {
		return t.id(t.nodes[idx].prev)
	}
	return NoNode
}

// Children returns the direct children of a node in order
func (t *Tree) Children(id NodeID) []NodeID {
	idx := t.lookup(id)
	if idx == none {
		return nil
	}
	var out []NodeID
	for c := t.nodes[idx].first; c != none; c = t.nodes[c].next {
		out = append(out, t.id(c))
	}
	return out
}

// Descendants returns the descendants of id (not id itself) in document order.
// When kinds are given only nodes of those kinds are returned.
func (t *Tree) Descendants(id NodeID, kinds ...Kind) []NodeID {
	idx := t.lookup(id)
	if idx == none {
		return nil
	}
	var out []NodeID
	t.walk(idx, false, func(i int32) bool {
		if matchesKind(t.nodes[i].kind, kinds) {
			out = append(out, t.id(i))
		}
		return true
	})
	return out
}

// Find returns the first node in document order, starting with id itself,
// for which match returns true.
func (t *Tree) Find(id NodeID, match func(NodeID) bool) NodeID {
	idx := t.lookup(id)
	if idx == none {
		return NoNode
	}
	found := none
	t.walk(idx, true, func(i int32) bool {
		if match(t.id(i)) {
			found = i
			return false
		}
		return true
	})
	return t.id(found)
}

// IsAncestor reports whether ancestor is id or one of its ancestors
func (t *Tree) IsAncestor(ancestor, id NodeID) bool {
	a := t.lookup(ancestor)
	i := t.lookup(id)
	if a == none || i == none {
		return false
	}
	for ; i != none; i = t.nodes[i].parent {
		if i == a {
			return true
		}
	}
	return false
}

func matchesKind(k Kind, kinds []Kind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// walk visits the subtree rooted at start in document order until fn returns false
func (t *Tree) walk(start int32, includeSelf bool, fn func(int32) bool) {
	advance := func(i int32) int32 {
		if c := t.nodes[i].first; c != none {
			return c
		}
		for i != start {
			if s := t.nodes[i].next; s != none {
				return s
			}
			i = t.nodes[i].parent
		}
		return none
	}

	if includeSelf && !fn(start) {
		return
	}
	for i := advance(start); i != none; i = advance(i) {
		if !fn(i) {
			return
		}
	}
}

// AppendChild attaches a detached node as the last child of parent
func (t *Tree) AppendChild(parent, child NodeID) error {
	p := t.lookup(parent)
	c := t.lookup(child)
	if p == none || c == none {
		return fmt.Errorf("append %s to %s: %w", child, parent, ErrInvalidNode)
	}
	if err := t.checkDetached(c, p); err != nil {
		return err
	}
	cn := &t.nodes[c]
	cn.parent = p
	cn.prev = t.nodes[p].last
	cn.next = none
	if last := t.nodes[p].last; last != none {
		t.nodes[last].next = c
	} else {
		t.nodes[p].first = c
	}
	t.nodes[p].last = c
	return nil
}

// InsertAfter attaches a detached node as the next sibling of ref
func (t *Tree) InsertAfter(ref, n NodeID) error {
	r := t.lookup(ref)
	c := t.lookup(n)
	if r == none || c == none {
		return fmt.Errorf("insert %s after %s: %w", n, ref, ErrInvalidNode)
	}
	p := t.nodes[r].parent
	if p == none {
		return fmt.Errorf("insert %s after %s: reference has no parent", n, ref)
	}
	if err := t.checkDetached(c, p); err != nil {
		return err
	}
	cn := &t.nodes[c]
	cn.parent = p
	cn.prev = r
	cn.next = t.nodes[r].next
	if nx := t.nodes[r].next; nx != none {
		t.nodes[nx].prev = c
	} else {
		t.nodes[p].last = c
	}
	t.nodes[r].next = c
	return nil
}

func (t *Tree) checkDetached(c, p int32) error {
	if t.nodes[c].parent != none || c == t.root {
		return fmt.Errorf("node %s is already attached", t.id(c))
	}
	for a := p; a != none; a = t.nodes[a].parent {
		if a == c {
			return fmt.Errorf("node %s cannot contain itself", t.id(c))
		}
	}
	return nil
}

// Remove detaches a node and frees its whole subtree. Every handle into the
// removed subtree becomes invalid.
func (t *Tree) Remove(id NodeID) error {
	idx := t.lookup(id)
	if idx == none {
		return fmt.Errorf("remove %s: %w", id, ErrInvalidNode)
	}
	t.detach(idx)
	if idx == t.root {
		t.root = none
	}

	var dead []int32
	t.walk(idx, true, func(i int32) bool {
		dead = append(dead, i)
		return true
	})
	for _, i := range dead {
		n := &t.nodes[i]
		n.live = false
		n.gen++
		n.attrs = nil
		n.text = ""
		t.free = append(t.free, i)
	}
	t.live -= len(dead)
	return nil
}

// ReplaceWith puts a detached node at the position of old and removes old
func (t *Tree) ReplaceWith(old, replacement NodeID) error {
	if err := t.InsertAfter(old, replacement); err != nil {
		return err
	}
	return t.Remove(old)
}

func (t *Tree) detach(idx int32) {
	n := &t.nodes[idx]
	if n.parent == none {
		return
	}
	if n.prev != none {
		t.nodes[n.prev].next = n.next
	} else {
		t.nodes[n.parent].first = n.next
	}
	if n.next != none {
		t.nodes[n.next].prev = n.prev
	} else {
		t.nodes[n.parent].last = n.prev
	}
	n.parent, n.prev, n.next = none, none, none
}
