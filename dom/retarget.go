// CLAUDE:SUMMARY Retargeting engine — Retarget, AdjustedElement, AdjustedFocusedElement, composed event-path builder.
package dom

// FocusOwnerSource supplies the focused frame-owner element when the
// document itself has no focused element (embedding-frame fallback).
type FocusOwnerSource interface {
	FocusedFrameOwner(doc *Document) *Node
}

// EventPathEntry is one step of a composed dispatch path: the node the
// event visits and the target it is seen as from that node's scope.
type EventPathEntry struct {
	Node   *Node
	Target *Node
}

// EventPathBuilder produces the ordered composed dispatch path for a
// target. Used only by legacy-shadow focus adjustment.
type EventPathBuilder interface {
	BuildPath(target *Node) []EventPathEntry
}

// Retarget finds, walking from target outward through shadow hosts, the
// first ancestor-or-self whose scope is s. A nil result means target is not
// visible from this scope; that is a normal outcome, not a failure.
func (s *Scope) Retarget(target *Node) *Node {
	for ancestor := target; ancestor != nil; ancestor = ancestor.OwnerShadowHost() {
		if ancestor.scope == s {
			return ancestor
		}
	}
	return nil
}

// AdjustedElement is Retarget with encapsulation hygiene: while walking
// outward it tracks the last element promoted across an encapsulated
// (open/closed) shadow root and returns that element once a scope match is
// found, so nodes assembled inside closed shadow trees are never exposed.
// Legacy roots do not promote.
func (s *Scope) AdjustedElement(target *Node) *Node {
	adjusted := target
	for ancestor := target; ancestor != nil; ancestor = ancestor.OwnerShadowHost() {
		if sr := ancestor.shadow; sr != nil && sr.mode.Encapsulated() {
			adjusted = ancestor
		}
		if ancestor.scope == s {
			return adjusted
		}
	}
	return nil
}

// AdjustedFocusedElement resolves the document's focused element (or the
// embedding frame's focus owner when none) as seen from this scope.
// Encapsulated shadow scopes retarget; legacy scopes and the document scope
// walk the composed event path of the focused element and answer with the
// path entry sitting at this scope's root.
func (s *Scope) AdjustedFocusedElement() *Node {
	s.doc.assertCallbacksAllowed()

	element := s.doc.focused
	if element == nil && s.doc.focusOwner != nil {
		element = s.doc.focusOwner.FocusedFrameOwner(s.doc)
	}
	if element == nil {
		return nil
	}

	if s.root.Kind == KindShadowRoot && s.root.mode.Encapsulated() {
		if retargeted := s.Retarget(element); retargeted != nil && retargeted.scope == s {
			return retargeted
		}
		return nil
	}

	builder := s.doc.pathBuilder
	if builder == nil {
		builder = defaultPathBuilder{}
	}
	for _, entry := range builder.BuildPath(element) {
		if entry.Node == s.root {
			if entry.Target != nil && entry.Target.Kind == KindElement {
				return entry.Target
			}
			return nil
		}
	}
	return nil
}

// defaultPathBuilder walks the composed tree from the target to the
// document root. Crossing a shadow root retargets: ancestors outside the
// shadow tree see the host as the target.
type defaultPathBuilder struct{}

func (defaultPathBuilder) BuildPath(target *Node) []EventPathEntry {
	var path []EventPathEntry
	seenAs := target
	for n := target; n != nil; {
		path = append(path, EventPathEntry{Node: n, Target: seenAs})
		if n.Kind == KindShadowRoot {
			seenAs = n.host
			n = n.host
			continue
		}
		n = n.parent
	}
	return path
}
