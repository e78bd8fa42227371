// CLAUDE:SUMMARY Anchor and access-key lookup — FindAnchor with quirks-mode matching, last-wins access-key scan across shadow stacks.
package dom

import "strings"

// FindAnchor resolves a fragment name: the ID index first, then anchor
// elements scanned in tree order. Quirks mode compares names
// case-insensitively; strict mode matches exactly.
func (s *Scope) FindAnchor(name string) *Node {
	if name == "" {
		return nil
	}
	if el := s.ElementByID(name); el != nil {
		return el
	}
	quirks := s.doc.quirks
	for el := firstElementWithin(s.root); el != nil; el = nextElement(el, s.root) {
		if el.Tag != "a" {
			continue
		}
		anchorName := el.Attr("name")
		if anchorName == "" {
			continue
		}
		if quirks {
			if strings.EqualFold(anchorName, name) {
				return el
			}
		} else if anchorName == name {
			return el
		}
	}
	return nil
}

// ElementByAccessKey scans the scope's subtree and, recursively, every
// shadow tree hosted within it (whole stacks, oldest root first so the
// youngest lands last), returning the LAST matching element in traversal
// order. Later matches override earlier ones.
func (s *Scope) ElementByAccessKey(key string) *Node {
	if key == "" {
		return nil
	}
	var result *Node
	for el := firstElementWithin(s.root); el != nil; el = nextElement(el, s.root) {
		if el.HasAttr("accesskey") && strings.EqualFold(el.Attr("accesskey"), key) {
			result = el
		}
		if r := accessKeyInStack(el.shadow, key); r != nil {
			result = r
		}
	}
	return result
}

// accessKeyInStack scans a shadow-root stack oldest-first and returns the
// last (youngest) match.
func accessKeyInStack(youngest *Node, key string) *Node {
	if youngest == nil {
		return nil
	}
	result := accessKeyInStack(youngest.older, key)
	if r := youngest.scope.ElementByAccessKey(key); r != nil {
		result = r
	}
	return result
}
