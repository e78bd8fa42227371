// CLAUDE:SUMMARY Scope hierarchy comparator — ComparePosition bitmask over scopes and common-ancestor-scope computation.
package dom

// ComparePosition orders this scope against other, accounting for
// shadow-root stacking and disconnected hierarchies. The returned bits
// describe other relative to s.
//
// Stacking convention, preserved as a documented invariant: when the two
// scopes are shadow roots of the same host, the OLDER root compares as
// Following the younger one (older roots render beneath and after younger
// ones). Reversing this silently breaks every dependent ordering.
func (s *Scope) ComparePosition(other *Scope) Position {
	if other == s {
		return PositionEquivalent
	}

	chain1 := ancestorScopes(s)
	chain2 := ancestorScopes(other)
	if chain1[len(chain1)-1] != chain2[len(chain2)-1] {
		// Disjoint hierarchies (different documents).
		return PositionDisconnected | PositionImplementationSpecific
	}

	i1, i2 := len(chain1), len(chain2)
	for i := min(i1, i2); i > 0; i-- {
		i1--
		i2--
		child1, child2 := chain1[i1], chain2[i2]
		if child1 == child2 {
			continue
		}

		host1 := child1.root.ParentOrShadowHost()
		host2 := child2.root.ParentOrShadowHost()
		if host1 != host2 {
			// Sibling scopes under different hosts: structural node
			// comparison decides, shadow trees treated as opaque units.
			return host1.CompareDocumentPosition(host2, true)
		}

		// Same host: stacking order decides.
		for child := child2.root.older; child != nil; child = child.older {
			if child.scope == child1 {
				return PositionFollowing
			}
		}
		return PositionPreceding
	}

	// One chain is a strict prefix of the other; the shorter is the
	// ancestor.
	if i1 < i2 {
		return PositionFollowing | PositionContainedBy
	}
	return PositionPreceding | PositionContains
}

// CommonAncestorScope returns the innermost scope containing both s and
// other, or nil when they belong to different documents.
func (s *Scope) CommonAncestorScope(other *Scope) *Scope {
	chain1 := ancestorScopes(s)
	chain2 := ancestorScopes(other)

	// Pop matching roots until the chains diverge; the last match is the
	// answer.
	var last *Scope
	i1, i2 := len(chain1)-1, len(chain2)-1
	for i1 >= 0 && i2 >= 0 && chain1[i1] == chain2[i2] {
		last = chain1[i1]
		i1--
		i2--
	}
	return last
}

// ancestorScopes returns the inclusive parent-scope chain, root scope last.
func ancestorScopes(s *Scope) []*Scope {
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}
