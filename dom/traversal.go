// CLAUDE:SUMMARY Tree-order traversal helpers for elements within a subtree.
package dom

// nextInTreeOrder returns the node after n in tree order, staying within
// stayWithin's subtree. Shadow trees are not entered; composed traversal is
// WalkComposed's job.
func nextInTreeOrder(n, stayWithin *Node) *Node {
	if n.firstChild != nil {
		return n.firstChild
	}
	for cur := n; cur != nil && cur != stayWithin; cur = cur.parent {
		if cur.nextSib != nil {
			return cur.nextSib
		}
	}
	return nil
}

// firstElementWithin returns the first element of root's subtree in tree
// order, excluding root itself.
func firstElementWithin(root *Node) *Node {
	for n := nextInTreeOrder(root, root); n != nil; n = nextInTreeOrder(n, root) {
		if n.Kind == KindElement {
			return n
		}
	}
	return nil
}

// nextElement returns the element after n in tree order within stayWithin.
func nextElement(n, stayWithin *Node) *Node {
	for cur := nextInTreeOrder(n, stayWithin); cur != nil; cur = nextInTreeOrder(cur, stayWithin) {
		if cur.Kind == KindElement {
			return cur
		}
	}
	return nil
}
