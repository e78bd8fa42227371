// CLAUDE:SUMMARY Document — owns the root scope, node creation, quirks mode, focus state, and the external collaborator hooks.
package dom

import "strings"

// Document owns a node tree and its scope hierarchy. All nodes created
// through it carry a creation serial used as the deterministic tiebreak for
// disconnected comparisons.
//
// External collaborators (hit testing, focus delegation, event-path
// construction) are injected through the Set* hooks; every query degrades to
// an explicit "no result" when a hook is absent.
type Document struct {
	root   *Node
	scope  *Scope
	quirks bool

	focused     *Node
	view        View
	hitTester   HitTester
	focusOwner  FocusOwnerSource
	pathBuilder EventPathBuilder

	serial          uint64
	scriptForbidden int
	pending         []pendingNotification
}

type pendingNotification struct {
	registry *IDObserverRegistry
	id       string
}

func (d *Document) queueIDNotification(r *IDObserverRegistry, id string) {
	d.pending = append(d.pending, pendingNotification{registry: r, id: id})
}

// NewDocument creates an empty document with its root scope.
func NewDocument() *Document {
	d := &Document{}
	d.root = &Node{Kind: KindDocument, doc: d, serial: d.nextSerial()}
	d.scope = newScope(d.root, d, nil)
	return d
}

func (d *Document) nextSerial() uint64 {
	d.serial++
	return d.serial
}

// Root returns the document node.
func (d *Document) Root() *Node { return d.root }

// Scope returns the document scope, the root of the scope hierarchy.
func (d *Document) Scope() *Scope { return d.scope }

// QuirksMode reports legacy compatibility mode. It controls case
// sensitivity of anchor-name matching.
func (d *Document) QuirksMode() bool { return d.quirks }

// SetQuirksMode switches legacy compatibility mode.
func (d *Document) SetQuirksMode(q bool) { d.quirks = q }

// DocumentElement returns the root element (<html> in markup documents).
func (d *Document) DocumentElement() *Node {
	for c := d.root.firstChild; c != nil; c = c.nextSib {
		if c.Kind == KindElement {
			return c
		}
	}
	return nil
}

// NewElement creates a detached element. The tag is lower-cased.
func (d *Document) NewElement(tag string) *Node {
	return &Node{Kind: KindElement, Tag: strings.ToLower(tag), doc: d, serial: d.nextSerial()}
}

// NewText creates a detached text node.
func (d *Document) NewText(data string) *Node {
	return &Node{Kind: KindText, Data: data, doc: d, serial: d.nextSerial()}
}

// NewComment creates a detached comment node.
func (d *Document) NewComment(data string) *Node {
	return &Node{Kind: KindComment, Data: data, doc: d, serial: d.nextSerial()}
}

// NewPseudo creates a detached pseudo-element node (e.g. "before").
func (d *Document) NewPseudo(name string) *Node {
	return &Node{Kind: KindPseudo, Tag: name, doc: d, serial: d.nextSerial()}
}

func (d *Document) newDoctype(name string) *Node {
	return &Node{Kind: KindDoctype, Data: name, doc: d, serial: d.nextSerial()}
}

// FocusedElement returns the document's focused element, or nil.
func (d *Document) FocusedElement() *Node { return d.focused }

// SetFocusedElement records the focused element. A nil element clears
// focus; a non-nil one must be a connected element of this document.
func (d *Document) SetFocusedElement(el *Node) {
	if el == nil {
		d.focused = nil
		return
	}
	if el.Kind != KindElement || el.doc != d || el.scope == nil {
		panic("dom: focused element must be a connected element of this document")
	}
	d.focused = el
}

// SetView injects the viewport geometry source used by point queries.
func (d *Document) SetView(v View) { d.view = v }

// SetHitTester injects the pixel-resolution collaborator.
func (d *Document) SetHitTester(h HitTester) { d.hitTester = h }

// SetFocusOwnerSource injects the embedding-frame focus fallback.
func (d *Document) SetFocusOwnerSource(f FocusOwnerSource) { d.focusOwner = f }

// SetEventPathBuilder replaces the composed event-path builder used by
// legacy-shadow focus adjustment. The default builder hops shadow
// boundaries host-by-host.
func (d *Document) SetEventPathBuilder(b EventPathBuilder) { d.pathBuilder = b }

// Release tears the document down: every scope, shadow or document, drops
// its indexes wholesale rather than entry by entry, and focus state clears.
// The tree itself stays readable.
func (d *Document) Release() {
	WalkComposed(d.root, func(n *Node) bool {
		if n.Kind == KindShadowRoot {
			n.scope.teardown()
		}
		return true
	})
	d.scope.teardown()
	d.focused = nil
}

// Walk visits n and its plain-tree descendants in tree order until fn
// returns false.
func Walk(n *Node, fn func(*Node) bool) {
	walk(n, fn)
}

func walk(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.firstChild; c != nil; c = c.nextSib {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

// WalkComposed visits n and its descendants including every shadow tree of
// every host, whole stacks, youngest first.
func WalkComposed(n *Node, fn func(*Node) bool) {
	walkComposed(n, fn)
}

func walkComposed(n *Node, fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for sr := n.shadow; sr != nil; sr = sr.older {
		if !walkComposed(sr, fn) {
			return false
		}
	}
	for c := n.firstChild; c != nil; c = c.nextSib {
		if !walkComposed(c, fn) {
			return false
		}
	}
	return true
}
