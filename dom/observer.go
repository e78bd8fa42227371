// CLAUDE:SUMMARY Identifier-change observer registry — external callbacks on ID add/remove, deferred while callbacks are forbidden.
package dom

// IDTargetObserver is notified when the set of elements carrying its
// observed identifier changes.
type IDTargetObserver interface {
	IDTargetChanged(id string)
}

// IDObserverRegistry lets other subsystems react to ID index changes
// without polling. One registry per scope.
//
// Observers are external callbacks: while the document is inside a
// callback-forbidden section (node adoption), notifications are queued and
// flushed when the section ends, so no observer can see a node mid-move.
type IDObserverRegistry struct {
	doc       *Document
	observers map[string][]IDTargetObserver
}

func newIDObserverRegistry(doc *Document) *IDObserverRegistry {
	return &IDObserverRegistry{doc: doc}
}

// Register subscribes o to changes of id.
func (r *IDObserverRegistry) Register(id string, o IDTargetObserver) {
	if id == "" {
		return
	}
	if r.observers == nil {
		r.observers = make(map[string][]IDTargetObserver)
	}
	r.observers[id] = append(r.observers[id], o)
}

// Unregister removes one subscription of o from id.
func (r *IDObserverRegistry) Unregister(id string, o IDTargetObserver) {
	seq := r.observers[id]
	for i, e := range seq {
		if e == o {
			seq = append(seq[:i], seq[i+1:]...)
			if len(seq) == 0 {
				delete(r.observers, id)
			} else {
				r.observers[id] = seq
			}
			return
		}
	}
}

func (r *IDObserverRegistry) notify(id string) {
	if len(r.observers[id]) == 0 {
		return
	}
	if r.doc.scriptForbidden > 0 {
		r.doc.queueIDNotification(r, id)
		return
	}
	for _, o := range r.observers[id] {
		o.IDTargetChanged(id)
	}
}
