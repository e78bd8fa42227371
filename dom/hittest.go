// CLAUDE:SUMMARY Point-based boundary queries — viewport adjustment, HitTester collaborator, ElementFromPoint/ElementsFromPoint.
package dom

// HitRequest selects hit-test semantics: single-result vs list-based, and
// penetrating (multi-layer) vs topmost-only.
type HitRequest uint32

const (
	HitReadOnly HitRequest = 1 << iota
	HitActive
	HitListBased
	HitPenetrating
)

// HitResult is the hit-test collaborator's answer: the innermost node at
// the point and, for list-based requests, every candidate front-to-back.
type HitResult struct {
	InnerNode  *Node
	ListResult []*Node
}

// HitTester resolves viewport coordinates to nodes. Coordinates handed to
// HitTest are already scroll- and zoom-adjusted.
type HitTester interface {
	HitTest(doc *Document, x, y int, req HitRequest) HitResult
}

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// View supplies viewport geometry: scroll offset, zoom, and the visible
// content rectangle.
type View interface {
	VisibleContentRect() Rect
	ScrollOffset() (int, int)
	ZoomFactor() float64
}

// adjustPointForView maps viewport-relative coordinates into the document
// and rejects points outside the visible content rectangle. Rejection
// happens before any hit-test walk.
func adjustPointForView(doc *Document, x, y int) (int, int, bool) {
	if doc.view == nil {
		return 0, 0, false
	}
	zoom := doc.view.ZoomFactor()
	if zoom <= 0 {
		zoom = 1
	}
	sx, sy := doc.view.ScrollOffset()
	px := int(float64(x)*zoom) + sx
	py := int(float64(y)*zoom) + sy
	if !doc.view.VisibleContentRect().Contains(px, py) {
		return 0, 0, false
	}
	return px, py, true
}

func hitTestInDocument(doc *Document, x, y int, req HitRequest) HitResult {
	doc.assertCallbacksAllowed()
	px, py, ok := adjustPointForView(doc, x, y)
	if !ok || doc.hitTester == nil {
		return HitResult{}
	}
	return doc.hitTester.HitTest(doc, px, py, req)
}

// ElementFromPoint returns the topmost element at the viewport point,
// expressed in terms of this scope.
func (s *Scope) ElementFromPoint(x, y int) *Node {
	return s.HitTestPoint(x, y, HitReadOnly|HitActive)
}

// HitTestPoint runs a single-result hit test and retargets the inner node
// into this scope. Pseudo-element and text results are substituted with
// their element-or-shadow-host parent before retargeting.
func (s *Scope) HitTestPoint(x, y int, req HitRequest) *Node {
	result := hitTestInDocument(s.root.doc, x, y, req)
	node := result.InnerNode
	if node == nil || node.Kind == KindDocument {
		return nil
	}
	if node.Kind == KindPseudo || node.Kind == KindText {
		node = node.ParentOrShadowHost()
	}
	node = s.AncestorInScope(node)
	if node == nil || node.Kind != KindElement {
		return nil
	}
	return node
}

// ElementsFromPoint returns every element at the viewport point,
// front-to-back, expressed in terms of this scope. A point outside the
// visible content rectangle yields nil without consulting the hit tester.
func (s *Scope) ElementsFromPoint(x, y int) []*Node {
	doc := s.root.doc
	doc.assertCallbacksAllowed()
	px, py, ok := adjustPointForView(doc, x, y)
	if !ok || doc.hitTester == nil {
		return nil
	}
	result := doc.hitTester.HitTest(doc, px, py,
		HitReadOnly|HitActive|HitListBased|HitPenetrating)
	return s.elementsFromHitResult(result)
}

func (s *Scope) elementsFromHitResult(result HitResult) []*Node {
	var elements []*Node

	var last *Node
	for _, node := range result.ListResult {
		if node == nil || node.Kind == KindDocument || node.Kind == KindText || node.Kind == KindComment {
			continue
		}
		if node.Kind == KindPseudo {
			node = node.ParentOrShadowHost()
		}
		node = s.AncestorInScope(node)

		// A pseudo content layer above its parent must collapse to one
		// entry.
		if node == last {
			continue
		}
		if node != nil && node.Kind == KindElement {
			elements = append(elements, node)
			last = node
		}
	}

	if s.root.Kind == KindDocument {
		if rootEl := s.doc.DocumentElement(); rootEl != nil {
			if len(elements) == 0 || elements[len(elements)-1] != rootEl {
				elements = append(elements, rootEl)
			}
		}
	}
	return elements
}
