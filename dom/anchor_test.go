package dom

import "testing"

func TestFindAnchorQuirksMode(t *testing.T) {
	markup := `<a name="Foo">top</a>` // no doctype: quirks mode
	doc := mustParse(t, markup)
	if !doc.QuirksMode() {
		t.Fatal("document without doctype should be in quirks mode")
	}

	el := doc.Scope().FindAnchor("foo")
	if el == nil || el.Tag != "a" {
		t.Error("quirks mode should match anchor names case-insensitively")
	}

	strict := mustParse(t, `<!DOCTYPE html><a name="Foo">top</a>`)
	if strict.QuirksMode() {
		t.Fatal("doctype should put the document in standards mode")
	}
	if strict.Scope().FindAnchor("foo") != nil {
		t.Error("strict mode must match anchor names exactly")
	}
	if strict.Scope().FindAnchor("Foo") == nil {
		t.Error("strict mode should still match the exact name")
	}
}

func TestFindAnchorPrefersID(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="target"></div><a name="target"></a>`)
	el := doc.Scope().FindAnchor("target")
	if el == nil || el.Tag != "div" {
		t.Error("the ID index resolves before the anchor-name scan")
	}
	if doc.Scope().FindAnchor("") != nil {
		t.Error("empty name should resolve to nil")
	}
}

func TestElementByAccessKeyLastWins(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html>
		<button id="first" accesskey="k"></button>
		<button id="second" accesskey="k"></button>`)
	scope := doc.Scope()

	if got := scope.ElementByAccessKey("k"); got != scope.ElementByID("second") {
		t.Error("later matches must override earlier ones")
	}
	if got := scope.ElementByAccessKey("K"); got != scope.ElementByID("second") {
		t.Error("access keys match case-insensitively")
	}
	if scope.ElementByAccessKey("") != nil {
		t.Error("empty key should resolve to nil")
	}
}

// Document D contains host H with two shadow roots: older (element X) then
// newer (element Y). The older scope compares as Following the newer one,
// and the access-key scan prefers Y (last wins across the whole stack).
func TestShadowStackEndToEnd(t *testing.T) {
	doc := mustParse(t, `<!DOCTYPE html><div id="h"></div>`)
	scope := doc.Scope()
	host := scope.ElementByID("h")

	older := host.AttachShadow(ShadowLegacy)
	x := doc.NewElement("button")
	x.SetAttr("id", "x")
	x.SetAttr("accesskey", "g")
	older.AppendChild(x)

	newer := host.AttachShadow(ShadowLegacy)
	y := doc.NewElement("button")
	y.SetAttr("id", "y")
	y.SetAttr("accesskey", "g")
	newer.AppendChild(y)

	if got := older.Scope().ComparePosition(newer.Scope()); got&PositionFollowing == 0 {
		t.Errorf("older vs newer scope: got %v, want Following bit", got)
	}
	if got := scope.ElementByAccessKey("g"); got != y {
		t.Errorf("access-key scan: got %v, want Y from the youngest root", got)
	}
}
