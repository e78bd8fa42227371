// CLAUDE:SUMMARY Scope entity — scope hierarchy bookkeeping plus the per-scope ordered ID and named image-map indexes.
package dom

import "strings"

// Scope is one scoping boundary: the document itself, or a shadow tree.
// A scope and its root node co-own each other; every node connected under
// the root reports this scope as its owning scope, synchronously with tree
// mutation.
type Scope struct {
	root   *Node
	doc    *Document
	parent *Scope

	// Lazily created indexes; cleared wholesale on teardown, entry-by-entry
	// on mutation.
	idIndex     *treeOrderedMap
	mapIndex    *treeOrderedMap
	idObservers *IDObserverRegistry
}

func newScope(root *Node, doc *Document, parent *Scope) *Scope {
	s := &Scope{root: root, doc: doc, parent: parent, idObservers: newIDObserverRegistry(doc)}
	root.scope = s
	return s
}

// RootNode returns the node rooting this scope (document or shadow root).
func (s *Scope) RootNode() *Node { return s.root }

// Document returns the owning document.
func (s *Scope) Document() *Document { return s.doc }

// ParentScope returns the enclosing scope; nil only for the document scope.
func (s *Scope) ParentScope() *Scope { return s.parent }

// IDObservers returns the identifier-change observer registry of this scope.
func (s *Scope) IDObservers() *IDObserverRegistry { return s.idObservers }

// setParentScope reparents a shadow-rooted scope, as part of moving its
// host. When the move crosses documents, the whole shadow tree, nested
// stacks included, follows the host into the new document. Reparenting
// the document scope is a contract breach.
func (s *Scope) setParentScope(parent *Scope) {
	if s.root.Kind == KindDocument {
		panic("dom: the document scope cannot be reparented")
	}
	s.parent = parent
	if s.doc != parent.doc {
		s.doc = parent.doc
		moveTreeToDocument(s.root, parent.doc)
	}
}

// teardown drops the indexes wholesale. Called when the scope's root is
// destroyed; entries are not removed one by one.
func (s *Scope) teardown() {
	s.idIndex = nil
	s.mapIndex = nil
}

// --- Ordered ID index ---

// ElementByID returns the first element in tree order carrying id, or nil.
func (s *Scope) ElementByID(id string) *Node {
	if id == "" || s.idIndex == nil {
		return nil
	}
	return s.idIndex.get(id)
}

// AllElementsByID returns every element carrying id, in tree order.
// Duplicate IDs are legal; the slice is freshly allocated.
func (s *Scope) AllElementsByID(id string) []*Node {
	if id == "" || s.idIndex == nil {
		return nil
	}
	return s.idIndex.getAll(id)
}

func (s *Scope) addElementByID(id string, el *Node) {
	if id == "" {
		return
	}
	if s.idIndex == nil {
		s.idIndex = newTreeOrderedMap()
	}
	s.idIndex.add(id, el)
	s.idObservers.notify(id)
}

func (s *Scope) removeElementByID(id string, el *Node) {
	if id == "" || s.idIndex == nil {
		return
	}
	s.idIndex.remove(id, el)
	s.idObservers.notify(id)
}

// --- Named image-map index ---

// ImageMapByName returns the first <map> element with the given name.
func (s *Scope) ImageMapByName(name string) *Node {
	if name == "" || s.mapIndex == nil {
		return nil
	}
	return s.mapIndex.get(name)
}

// FragmentTarget resolves a URL or bare fragment against the named map
// index: everything up to and including the last '#' is stripped; a string
// without '#' is tried whole.
func (s *Scope) FragmentTarget(url string) *Node {
	if url == "" {
		return nil
	}
	name := url
	if i := strings.LastIndexByte(url, '#'); i >= 0 {
		name = url[i+1:]
	}
	return s.ImageMapByName(name)
}

func (s *Scope) addImageMap(name string, el *Node) {
	if name == "" {
		return
	}
	if s.mapIndex == nil {
		s.mapIndex = newTreeOrderedMap()
	}
	s.mapIndex.add(name, el)
}

func (s *Scope) removeImageMap(name string, el *Node) {
	if name == "" || s.mapIndex == nil {
		return
	}
	s.mapIndex.remove(name, el)
}

// --- Hierarchy walks ---

// AncestorInScope walks node upward through shadow-host hops while it stays
// inside nested shadow trees, and returns the first node owned by this
// scope, or nil once the walk exits all shadow nesting without a match.
func (s *Scope) AncestorInScope(node *Node) *Node {
	for node != nil {
		if node.scope == s {
			return node
		}
		if !node.InShadowTree() {
			return nil
		}
		node = node.OwnerShadowHost()
	}
	return nil
}

// OlderShadowRootOrParentScope returns the scope of the next older shadow
// root on the same host, or the parent scope.
func (s *Scope) OlderShadowRootOrParentScope() *Scope {
	if s.root.Kind == KindShadowRoot && s.root.older != nil {
		return s.root.older.scope
	}
	return s.parent
}

// IsInclusiveAncestorOf reports whether s is scope or an ancestor of it.
func (s *Scope) IsInclusiveAncestorOf(scope *Scope) bool {
	for cur := scope; cur != nil; cur = cur.parent {
		if cur == s {
			return true
		}
	}
	return false
}
