package dom

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, markup string, opts ...ParseOption) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(markup), opts...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestElementByID(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="x">hello</div>`)

	el := doc.Scope().ElementByID("x")
	if el == nil {
		t.Fatal("ElementByID(x) = nil")
	}
	if el.Tag != "div" {
		t.Errorf("tag: got %q, want div", el.Tag)
	}
	if doc.Scope().ElementByID("") != nil {
		t.Error("empty id should resolve to nil")
	}
	if doc.Scope().ElementByID("missing") != nil {
		t.Error("unknown id should resolve to nil")
	}
}

func TestDuplicateIDsKeepTreeOrder(t *testing.T) {
	// first and second carry no id yet; ids are added in REVERSE document
	// order, and the index must still answer in document order.
	doc := mustParse(t, `<!DOCTYPE html><p id="first"></p><p id="second"></p>`)
	scope := doc.Scope()

	first := scope.ElementByID("first")
	second := scope.ElementByID("second")

	second.SetAttr("id", "dup") // later in tree order, registered first
	first.SetAttr("id", "dup")

	all := scope.AllElementsByID("dup")
	if len(all) != 2 {
		t.Fatalf("AllElementsByID: got %d, want 2", len(all))
	}
	if all[0] != first || all[1] != second {
		t.Error("sequence not in tree order")
	}
	if scope.ElementByID("dup") != first {
		t.Error("single-result lookup must resolve the first in tree order")
	}

	// Removing the first holder promotes the next in tree order.
	first.RemoveAttr("id")
	if scope.ElementByID("dup") != second {
		t.Error("after removal, next tree-order holder should resolve")
	}
	second.RemoveAttr("id")
	if scope.ElementByID("dup") != nil {
		t.Error("empty sequence should drop the identifier entirely")
	}
}

func TestIDIndexSyncWithMutation(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="host"></div>`)
	scope := doc.Scope()
	host := scope.ElementByID("host")

	child := doc.NewElement("span")
	child.SetAttr("id", "kid")
	if scope.ElementByID("kid") != nil {
		t.Fatal("detached element must not be indexed")
	}

	host.AppendChild(child)
	if scope.ElementByID("kid") != child {
		t.Fatal("insertion must index synchronously")
	}

	host.RemoveChild(child)
	if scope.ElementByID("kid") != nil {
		t.Fatal("removal must unindex synchronously")
	}
}

func TestShadowScopeIsolation(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html>
		<div id="host"><template shadowrootmode="open"><b id="inner"></b></template></div>`)
	scope := doc.Scope()
	host := scope.ElementByID("host")

	if scope.ElementByID("inner") != nil {
		t.Fatal("shadow-tree ids must not leak into the document scope")
	}

	sr := host.YoungestShadowRoot()
	if sr == nil {
		t.Fatal("declarative shadow root not attached")
	}
	inner := sr.Scope().ElementByID("inner")
	if inner == nil {
		t.Fatal("shadow scope should index its own elements")
	}
	if inner.Scope() != sr.Scope() {
		t.Error("inner element must report the shadow scope as its owner")
	}
	if sr.Scope().ParentScope() != scope {
		t.Error("shadow scope parent must be the host's scope")
	}
}

func TestFragmentTarget(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><map name="m"><area></map>`)
	scope := doc.Scope()

	m := scope.ImageMapByName("m")
	if m == nil {
		t.Fatal("map not indexed by name")
	}
	for _, url := range []string{"m", "#m", "page.html#m", "a#b#m"} {
		if scope.FragmentTarget(url) != m {
			t.Errorf("FragmentTarget(%q) did not resolve the map", url)
		}
	}
	if scope.FragmentTarget("") != nil {
		t.Error("empty fragment should resolve to nil")
	}
	if scope.FragmentTarget("page.html#nope") != nil {
		t.Error("unknown name should resolve to nil")
	}
}

type recordingObserver struct {
	ids       []string
	forbidden []bool
}

func (o *recordingObserver) IDTargetChanged(id string) {
	o.ids = append(o.ids, id)
}

func TestIDObserversNotified(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="host"></div>`)
	scope := doc.Scope()

	obs := &recordingObserver{}
	scope.IDObservers().Register("watched", obs)

	el := doc.NewElement("span")
	el.SetAttr("id", "watched")
	scope.ElementByID("host").AppendChild(el)
	if len(obs.ids) != 1 {
		t.Fatalf("add: got %d notifications, want 1", len(obs.ids))
	}

	el.RemoveAttr("id")
	if len(obs.ids) != 2 {
		t.Fatalf("remove: got %d notifications, want 2", len(obs.ids))
	}

	scope.IDObservers().Unregister("watched", obs)
	el.SetAttr("id", "watched")
	if len(obs.ids) != 2 {
		t.Error("unregistered observer must not be notified")
	}
}

func TestScopeHierarchyWalks(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html>
		<div id="outer"><template shadowrootmode="open"><div id="middle"></div></template></div>`)
	scope := doc.Scope()
	outer := scope.ElementByID("outer")
	outerShadow := outer.YoungestShadowRoot().Scope()
	middle := outerShadow.ElementByID("middle")
	innerShadow := middle.AttachShadow(ShadowOpen).Scope()

	if !scope.IsInclusiveAncestorOf(innerShadow) {
		t.Error("document scope should be an inclusive ancestor of nested shadow scopes")
	}
	if !innerShadow.IsInclusiveAncestorOf(innerShadow) {
		t.Error("inclusive ancestor must include self")
	}
	if innerShadow.IsInclusiveAncestorOf(scope) {
		t.Error("inner scope is not an ancestor of the document scope")
	}
	if innerShadow.OlderShadowRootOrParentScope() != outerShadow {
		t.Error("single-root host: older-or-parent should be the parent scope")
	}

	older := outer.AttachShadow(ShadowLegacy) // now older than a newer one
	newer := outer.AttachShadow(ShadowLegacy)
	if newer.Scope().OlderShadowRootOrParentScope() != older.Scope() {
		t.Error("stacked host: older-or-parent should be the older root's scope")
	}
}

func TestReleaseClearsIndexes(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html>
		<div id="host"><template shadowrootmode="open"><i id="inner"></i></template></div>`)
	host := doc.Scope().ElementByID("host")
	sr := host.YoungestShadowRoot()

	doc.Release()
	if doc.Scope().ElementByID("host") != nil {
		t.Error("document scope index should be gone after release")
	}
	if sr.Scope().ElementByID("inner") != nil {
		t.Error("shadow scope index should be gone after release")
	}
}
