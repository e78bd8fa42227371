// CLAUDE:SUMMARY Node model for domscope — tagged node kinds, tree links, shadow stacks, attributes, structural position comparison.
// Package dom implements the scoping hierarchy of a document tree that may
// contain nested shadow trees, and the algorithms that reason about element
// identity, ordering, and visibility across those boundaries.
//
// A document partitions its nodes into scopes: one document scope and zero or
// more scopes rooted at shadow roots attached to host elements. Every
// connected node belongs to exactly one scope; each scope keeps its own
// ordered ID and named-map indexes. On top of that sit the scope hierarchy
// comparator, the retargeting engine (focus, pointer lock, fullscreen
// exposure across shadow boundaries), and the boundary query facade
// (elementFromPoint, anchors, access keys).
//
// The package is single-threaded by design: all mutation and queries run on
// the document's owning goroutine, like the rest of a document lifecycle.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Kind discriminates node variants. Traversal and retargeting dispatch on
// explicit kind switches rather than interfaces.
type Kind uint8

const (
	KindDocument Kind = iota
	KindDoctype
	KindElement
	KindText
	KindComment
	KindPseudo
	KindShadowRoot
)

// ShadowMode is the encapsulation variant of a shadow root.
type ShadowMode string

const (
	// ShadowOpen and ShadowClosed are the strict encapsulation variants.
	ShadowOpen   ShadowMode = "open"
	ShadowClosed ShadowMode = "closed"
	// ShadowLegacy is the pre-encapsulation variant; several legacy roots
	// may stack on one host.
	ShadowLegacy ShadowMode = "legacy"
)

// Encapsulated reports whether the mode is a strict encapsulation variant.
func (m ShadowMode) Encapsulated() bool {
	return m == ShadowOpen || m == ShadowClosed
}

// Node is one node of a document or shadow tree.
//
// Plain-tree links (parent/children/siblings) never cross a shadow boundary:
// a shadow root has no parent, only a host. The scope pointer is non-nil
// exactly while the node is connected under a scope root.
type Node struct {
	Kind  Kind
	Tag   string // element tag (lower-case); pseudo name for KindPseudo
	Data  string // payload for text, comment and doctype nodes
	Attrs []html.Attribute

	doc    *Document
	scope  *Scope
	serial uint64 // creation order within the document; disconnected tiebreak

	parent     *Node
	firstChild *Node
	lastChild  *Node
	prevSib    *Node
	nextSib    *Node

	// Element only: youngest shadow root of the stack, or nil.
	shadow *Node

	// Shadow root only.
	host  *Node
	older *Node // next older shadow root on the same host
	mode  ShadowMode
}

// OwnerDocument returns the document the node was created in.
func (n *Node) OwnerDocument() *Document { return n.doc }

// Scope returns the node's owning scope, or nil while disconnected.
func (n *Node) Scope() *Scope { return n.scope }

func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) FirstChild() *Node  { return n.firstChild }
func (n *Node) LastChild() *Node   { return n.lastChild }
func (n *Node) PrevSibling() *Node { return n.prevSib }
func (n *Node) NextSibling() *Node { return n.nextSib }

// YoungestShadowRoot returns the youngest shadow root attached to an
// element, or nil. Older roots hang off OlderShadowRoot.
func (n *Node) YoungestShadowRoot() *Node { return n.shadow }

// OlderShadowRoot returns the next older shadow root on the same host.
func (n *Node) OlderShadowRoot() *Node { return n.older }

// Host returns the host element of a shadow root, nil for other kinds.
func (n *Node) Host() *Node { return n.host }

// Mode returns the encapsulation variant of a shadow root.
func (n *Node) Mode() ShadowMode { return n.mode }

// ID returns the element's id attribute, or "".
func (n *Node) ID() string { return n.Attr("id") }

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the named attribute is present, even if empty.
func (n *Node) HasAttr(name string) bool {
	for _, a := range n.Attrs {
		if a.Key == name {
			return true
		}
	}
	return false
}

// SetAttr sets an attribute, keeping the scope indexes in sync when the
// node is connected.
func (n *Node) SetAttr(name, val string) {
	name = strings.ToLower(name)
	old := n.Attr(name)
	found := false
	for i := range n.Attrs {
		if n.Attrs[i].Key == name {
			n.Attrs[i].Val = val
			found = true
			break
		}
	}
	if !found {
		n.Attrs = append(n.Attrs, html.Attribute{Key: name, Val: val})
	}
	if n.scope != nil && n.Kind == KindElement {
		reindexAttr(n, n.scope, name, old, val)
	}
}

// RemoveAttr removes an attribute if present, updating scope indexes.
func (n *Node) RemoveAttr(name string) {
	name = strings.ToLower(name)
	for i := range n.Attrs {
		if n.Attrs[i].Key == name {
			old := n.Attrs[i].Val
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			if n.scope != nil && n.Kind == KindElement {
				reindexAttr(n, n.scope, name, old, "")
			}
			return
		}
	}
}

// reindexAttr moves index registrations when an indexed attribute changes.
func reindexAttr(n *Node, s *Scope, name, old, val string) {
	switch name {
	case "id":
		if old != "" {
			s.removeElementByID(old, n)
		}
		if val != "" {
			s.addElementByID(val, n)
		}
	case "name":
		if n.Tag == "map" {
			if old != "" {
				s.removeImageMap(old, n)
			}
			if val != "" {
				s.addImageMap(val, n)
			}
		}
	}
}

// AppendChild appends c as the last child of n. If n is connected, c and
// its subtree are adopted into n's scope and the scope indexes update
// synchronously. c must be detached and must not be a document node.
func (n *Node) AppendChild(c *Node) {
	n.insertBefore(c, nil)
}

// InsertBefore inserts c as a child of n immediately before ref. A nil ref
// appends. ref must be a child of n.
func (n *Node) InsertBefore(c, ref *Node) {
	if ref != nil && ref.parent != n {
		panic("dom: InsertBefore reference is not a child of the parent")
	}
	n.insertBefore(c, ref)
}

func (n *Node) insertBefore(c, ref *Node) {
	switch {
	case c.Kind == KindDocument:
		panic("dom: a document node cannot be inserted")
	case c.Kind == KindShadowRoot:
		panic("dom: a shadow root is attached to a host, never inserted")
	case c.parent != nil:
		panic("dom: node is already in a tree; remove it first")
	}

	c.parent = n
	if ref == nil {
		c.prevSib = n.lastChild
		if n.lastChild != nil {
			n.lastChild.nextSib = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
	} else {
		c.nextSib = ref
		c.prevSib = ref.prevSib
		if ref.prevSib != nil {
			ref.prevSib.nextSib = c
		} else {
			n.firstChild = c
		}
		ref.prevSib = c
	}

	if n.scope != nil {
		n.scope.AdoptIfNeeded(c)
	}
}

// RemoveChild detaches c from n. The subtree keeps its document but loses
// its scope; indexes are updated synchronously.
func (n *Node) RemoveChild(c *Node) {
	if c.parent != n {
		panic("dom: RemoveChild of a node that is not a child")
	}
	if c.prevSib != nil {
		c.prevSib.nextSib = c.nextSib
	} else {
		n.firstChild = c.nextSib
	}
	if c.nextSib != nil {
		c.nextSib.prevSib = c.prevSib
	} else {
		n.lastChild = c.prevSib
	}
	c.parent, c.prevSib, c.nextSib = nil, nil, nil

	if c.scope != nil {
		clearScope(c)
	}
}

// AttachShadow attaches a new shadow root to an element and returns it.
// The new root becomes the youngest of the host's stack; the previous
// youngest is reachable through OlderShadowRoot. Only the youngest is
// active for rendering, but every root stays addressable.
func (n *Node) AttachShadow(mode ShadowMode) *Node {
	if n.Kind != KindElement {
		panic("dom: AttachShadow on a non-element node")
	}
	root := &Node{
		Kind:   KindShadowRoot,
		doc:    n.doc,
		serial: n.doc.nextSerial(),
		host:   n,
		older:  n.shadow,
		mode:   mode,
	}
	parent := n.scope
	if parent == nil {
		// Detached host: parent under the document scope until adoption.
		parent = n.doc.scope
	}
	root.scope = newScope(root, n.doc, parent)
	n.shadow = root
	return root
}

// OwnerShadowHost returns the host of the shadow tree containing n, or nil
// when n is not inside a shadow tree.
func (n *Node) OwnerShadowHost() *Node {
	if n.scope == nil || n.scope.root.Kind != KindShadowRoot {
		return nil
	}
	return n.scope.root.host
}

// InShadowTree reports whether n's scope is rooted at a shadow root.
func (n *Node) InShadowTree() bool {
	return n.scope != nil && n.scope.root.Kind == KindShadowRoot
}

// ParentOrShadowHost returns the plain-tree parent, or the shadow host when
// n is a shadow root.
func (n *Node) ParentOrShadowHost() *Node {
	if n.Kind == KindShadowRoot {
		return n.host
	}
	return n.parent
}

// Position is the bitmask vocabulary of structural comparisons. The bits
// describe the argument's position relative to the receiver; Equivalent is
// the zero value.
type Position uint16

const (
	PositionEquivalent             Position = 0
	PositionDisconnected           Position = 1 << 0
	PositionPreceding              Position = 1 << 1
	PositionFollowing              Position = 1 << 2
	PositionContains               Position = 1 << 3
	PositionContainedBy            Position = 1 << 4
	PositionImplementationSpecific Position = 1 << 5
)

// Names returns the set bit names, for logs and service responses.
func (p Position) Names() []string {
	if p == PositionEquivalent {
		return []string{"equivalent"}
	}
	var out []string
	for _, b := range []struct {
		bit  Position
		name string
	}{
		{PositionDisconnected, "disconnected"},
		{PositionPreceding, "preceding"},
		{PositionFollowing, "following"},
		{PositionContains, "contains"},
		{PositionContainedBy, "contained_by"},
		{PositionImplementationSpecific, "implementation_specific"},
	} {
		if p&b.bit != 0 {
			out = append(out, b.name)
		}
	}
	return out
}

// CompareDocumentPosition orders two nodes of the same document by plain
// tree structure. With treatShadowAsDisconnected, nodes in different scopes
// compare as disconnected units (shadow trees are opaque); the preceding or
// following bit added in that case is a deterministic creation-order
// tiebreak, flagged implementation-specific.
func (n *Node) CompareDocumentPosition(other *Node, treatShadowAsDisconnected bool) Position {
	if n == other {
		return PositionEquivalent
	}

	if treatShadowAsDisconnected && n.scope != other.scope {
		return PositionDisconnected | PositionImplementationSpecific | n.serialOrder(other)
	}

	chain1 := plainAncestors(n)
	chain2 := plainAncestors(other)
	if chain1[len(chain1)-1] != chain2[len(chain2)-1] {
		return PositionDisconnected | PositionImplementationSpecific | n.serialOrder(other)
	}

	// Walk from the shared root inward to the first divergence.
	i1, i2 := len(chain1)-1, len(chain2)-1
	for i1 >= 0 && i2 >= 0 && chain1[i1] == chain2[i2] {
		i1--
		i2--
	}
	if i1 < 0 {
		// n's chain exhausted first: n is an ancestor of other.
		return PositionFollowing | PositionContainedBy
	}
	if i2 < 0 {
		return PositionPreceding | PositionContains
	}

	// chain1[i1] and chain2[i2] are distinct siblings; sibling order decides.
	for sib := chain1[i1].nextSib; sib != nil; sib = sib.nextSib {
		if sib == chain2[i2] {
			return PositionFollowing
		}
	}
	return PositionPreceding
}

func (n *Node) serialOrder(other *Node) Position {
	if other.serial > n.serial {
		return PositionFollowing
	}
	return PositionPreceding
}

// plainAncestors returns n's inclusive ancestor chain, root last, without
// crossing shadow boundaries.
func plainAncestors(n *Node) []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}
