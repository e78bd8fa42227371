// CLAUDE:SUMMARY Scope adoption — moves subtrees between scopes under a callback-forbidden guard, keeping indexes synchronous.
package dom

// callbackForbiddenScope guards scope reassignment. While held, external
// callbacks (ID observers, anything script-like) must not run: a node could
// be observed mid-move with an inconsistent scope. The guard nests and is
// released on every exit path; queued notifications flush when the
// outermost guard drops.
type callbackForbiddenScope struct {
	doc      *Document
	released bool
}

func (d *Document) forbidCallbacks() *callbackForbiddenScope {
	d.scriptForbidden++
	return &callbackForbiddenScope{doc: d}
}

func (g *callbackForbiddenScope) release() {
	if g.released {
		return
	}
	g.released = true
	g.doc.scriptForbidden--
	if g.doc.scriptForbidden == 0 {
		flushPending(g.doc)
	}
}

func flushPending(d *Document) {
	for len(d.pending) > 0 {
		p := d.pending[0]
		d.pending = d.pending[1:]
		for _, o := range p.registry.observers[p.id] {
			o.IDTargetChanged(p.id)
		}
	}
}

// CallbacksForbidden reports whether the document is inside an adoption
// guard. Entry points that run arbitrary external callbacks must treat a
// true result as a programming-contract breach.
func (d *Document) CallbacksForbidden() bool { return d.scriptForbidden > 0 }

func (d *Document) assertCallbacksAllowed() {
	if d.scriptForbidden > 0 {
		panic("dom: external callback during scope adoption")
	}
}

// AdoptIfNeeded makes n (and its subtree) belong to this scope. It is a
// single atomic move: scope assignment, index transfer, and sub-scope
// reparenting happen under one guard, never lagged behind tree mutation.
// Adopting a document node is a contract breach.
func (s *Scope) AdoptIfNeeded(n *Node) {
	if n.Kind == KindDocument {
		panic("dom: a document node cannot be adopted")
	}
	guard := s.doc.forbidCallbacks()
	defer guard.release()

	if n.scope == s {
		return
	}
	moveToScope(n, s)
}

// moveToScope reassigns the subtree rooted at n. Shadow scopes hosted
// within the subtree keep their own scope but are reparented under the
// target, following their host into the target document.
func moveToScope(n *Node, s *Scope) {
	old := n.scope
	if old == s {
		return
	}
	if n.Kind == KindElement {
		if old != nil {
			if id := n.ID(); id != "" {
				old.removeElementByID(id, n)
			}
			if n.Tag == "map" {
				if name := n.Attr("name"); name != "" {
					old.removeImageMap(name, n)
				}
			}
		}
		if id := n.ID(); id != "" {
			s.addElementByID(id, n)
		}
		if n.Tag == "map" {
			if name := n.Attr("name"); name != "" {
				s.addImageMap(name, n)
			}
		}
	}
	n.scope = s
	n.doc = s.doc

	for sr := n.shadow; sr != nil; sr = sr.older {
		sr.scope.setParentScope(s)
	}
	for c := n.firstChild; c != nil; c = c.nextSib {
		moveToScope(c, s)
	}
}

// moveTreeToDocument refreshes the document backreference of every node
// under n, descending into every hosted shadow stack. Scope shapes are
// untouched; only the doc pointers change.
func moveTreeToDocument(n *Node, doc *Document) {
	n.doc = doc
	for sr := n.shadow; sr != nil; sr = sr.older {
		sr.scope.doc = doc
		moveTreeToDocument(sr, doc)
	}
	for c := n.firstChild; c != nil; c = c.nextSib {
		moveTreeToDocument(c, doc)
	}
}

// clearScope detaches the subtree rooted at n from its scope: index entries
// go away synchronously, the nodes keep their document. Shadow sub-scopes
// stay parented where they were until the next adoption.
func clearScope(n *Node) {
	old := n.scope
	if old == nil {
		return
	}
	if n.Kind == KindElement {
		if id := n.ID(); id != "" {
			old.removeElementByID(id, n)
		}
		if n.Tag == "map" {
			if name := n.Attr("name"); name != "" {
				old.removeImageMap(name, n)
			}
		}
	}
	n.scope = nil
	for c := n.firstChild; c != nil; c = c.nextSib {
		clearScope(c)
	}
}
