package dom

import "testing"

// buildNestedShadow returns a document with host > (open shadow) > middle >
// (open shadow) > inner.
func buildNestedShadow(t *testing.T) (doc *Document, host, middle, inner *Node) {
	t.Helper()
	doc = mustParse(t, `<!DOCTYPE html><div id="host"></div>`)
	host = doc.Scope().ElementByID("host")
	sr1 := host.AttachShadow(ShadowOpen)
	middle = doc.NewElement("div")
	middle.SetAttr("id", "middle")
	sr1.AppendChild(middle)
	sr2 := middle.AttachShadow(ShadowOpen)
	inner = doc.NewElement("span")
	inner.SetAttr("id", "inner")
	sr2.AppendChild(inner)
	return doc, host, middle, inner
}

func TestRetargetRoundTrip(t *testing.T) {
	_, host, middle, inner := buildNestedShadow(t)
	for _, e := range []*Node{host, middle, inner} {
		if got := e.Scope().Retarget(e); got != e {
			t.Errorf("retarget into own scope: got %v, want the element itself", got)
		}
	}
}

func TestRetargetAcrossBoundaries(t *testing.T) {
	doc, host, middle, inner := buildNestedShadow(t)

	if got := doc.Scope().Retarget(inner); got != host {
		t.Errorf("document scope sees inner as %v, want host", got)
	}
	if got := middle.Scope().Retarget(inner); got != middle {
		t.Errorf("outer shadow scope sees inner as %v, want middle", got)
	}

	// Monotonicity: every ancestor scope of inner's scope resolves to a
	// non-nil element.
	for s := inner.Scope(); s != nil; s = s.ParentScope() {
		if s.Retarget(inner) == nil {
			t.Fatal("retargeting from an ancestor scope must not fail")
		}
	}
}

func TestRetargetInvisible(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="a"></div><div id="b"></div>`)
	sa := doc.Scope().ElementByID("a").AttachShadow(ShadowOpen)
	sb := doc.Scope().ElementByID("b").AttachShadow(ShadowOpen)
	inA := doc.NewElement("i")
	sa.AppendChild(inA)

	if got := sb.Scope().Retarget(inA); got != nil {
		t.Errorf("sibling shadow scope: got %v, want nil (not visible)", got)
	}
}

func TestAdjustedElementPromotion(t *testing.T) {
	doc, host, middle, inner := buildNestedShadow(t)

	// Walking out of encapsulated roots promotes to the host that crossed
	// the boundary: the document scope never sees middle or inner.
	if got := doc.Scope().AdjustedElement(inner); got != host {
		t.Errorf("AdjustedElement from document scope: got %v, want host", got)
	}
	if got := middle.Scope().AdjustedElement(inner); got != middle {
		t.Errorf("AdjustedElement from outer shadow scope: got %v, want middle", got)
	}
}

func TestAdjustedElementLegacyNoPromotion(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="host"></div>`)
	host := doc.Scope().ElementByID("host")
	sr := host.AttachShadow(ShadowLegacy)
	inner := doc.NewElement("span")
	sr.AppendChild(inner)

	// Legacy roots don't promote; the target itself comes back once the
	// scope matches.
	if got := doc.Scope().AdjustedElement(inner); got != inner {
		t.Errorf("legacy AdjustedElement: got %v, want inner", got)
	}
}

func TestAncestorInScope(t *testing.T) {
	doc, host, _, inner := buildNestedShadow(t)

	if got := doc.Scope().AncestorInScope(host); got != host {
		t.Error("node already in scope should come back unchanged")
	}
	if got := doc.Scope().AncestorInScope(inner); got != host {
		t.Errorf("nested shadow node: got %v, want host", got)
	}

	other := mustParse(t, `<!DOCTYPE html><p id="p"></p>`)
	stranger := other.Scope().ElementByID("p")
	if got := doc.Scope().AncestorInScope(stranger); got != nil {
		t.Error("node outside all shadow nesting of this scope: want nil")
	}
}

func TestAdjustedFocusedElementEncapsulated(t *testing.T) {
	doc, host, middle, inner := buildNestedShadow(t)
	doc.SetFocusedElement(inner)

	if got := inner.Scope().AdjustedFocusedElement(); got != inner {
		t.Errorf("own scope: got %v, want inner", got)
	}
	if got := middle.Scope().AdjustedFocusedElement(); got != middle {
		t.Errorf("outer shadow scope: got %v, want middle", got)
	}
	// Document scope takes the event-path branch and lands on the host.
	if got := doc.Scope().AdjustedFocusedElement(); got != host {
		t.Errorf("document scope: got %v, want host", got)
	}
}

func TestAdjustedFocusedElementLegacy(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="host"></div>`)
	host := doc.Scope().ElementByID("host")
	sr := host.AttachShadow(ShadowLegacy)
	inner := doc.NewElement("button")
	sr.AppendChild(inner)
	doc.SetFocusedElement(inner)

	// Legacy scope answers through the composed event path: the entry at
	// the shadow root still targets the inner element.
	if got := sr.Scope().AdjustedFocusedElement(); got != inner {
		t.Errorf("legacy shadow scope: got %v, want inner", got)
	}
}

type stubFocusOwner struct{ owner *Node }

func (s stubFocusOwner) FocusedFrameOwner(doc *Document) *Node { return s.owner }

func TestAdjustedFocusedElementFallback(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><iframe id="frame"></iframe>`)
	frame := doc.Scope().ElementByID("frame")

	if got := doc.Scope().AdjustedFocusedElement(); got != nil {
		t.Errorf("no focus anywhere: got %v, want nil", got)
	}

	doc.SetFocusOwnerSource(stubFocusOwner{owner: frame})
	if got := doc.Scope().AdjustedFocusedElement(); got != frame {
		t.Errorf("frame-owner fallback: got %v, want frame", got)
	}
}
