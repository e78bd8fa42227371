// CLAUDE:SUMMARY treeOrderedMap — per-scope multimap keyed by identifier, entries kept in document tree order.
package dom

// treeOrderedMap maps an identifier to the elements carrying it, ordered by
// tree position within the scope. Order is decided by structural
// comparison at insertion, never by insertion time: an element inserted
// later but positioned earlier still sorts first. A key disappears when its
// last element is removed.
type treeOrderedMap struct {
	entries map[string][]*Node
}

func newTreeOrderedMap() *treeOrderedMap {
	return &treeOrderedMap{entries: make(map[string][]*Node)}
}

func (t *treeOrderedMap) add(key string, n *Node) {
	if key == "" {
		return
	}
	seq := t.entries[key]
	at := len(seq)
	for i, e := range seq {
		if e == n {
			return
		}
		if n.CompareDocumentPosition(e, false)&PositionFollowing != 0 {
			// e follows n: n slots in before it.
			at = i
			break
		}
	}
	seq = append(seq, nil)
	copy(seq[at+1:], seq[at:])
	seq[at] = n
	t.entries[key] = seq
}

func (t *treeOrderedMap) remove(key string, n *Node) {
	seq, ok := t.entries[key]
	if !ok {
		return
	}
	for i, e := range seq {
		if e == n {
			seq = append(seq[:i], seq[i+1:]...)
			if len(seq) == 0 {
				delete(t.entries, key)
			} else {
				t.entries[key] = seq
			}
			return
		}
	}
}

// get returns the element a single-result lookup resolves to: the first in
// tree order.
func (t *treeOrderedMap) get(key string) *Node {
	if seq := t.entries[key]; len(seq) > 0 {
		return seq[0]
	}
	return nil
}

func (t *treeOrderedMap) getAll(key string) []*Node {
	seq := t.entries[key]
	if len(seq) == 0 {
		return nil
	}
	out := make([]*Node, len(seq))
	copy(out, seq)
	return out
}
