package entities

// Workspace is the explicit store of one session: the definition cache, the working
// list, the loading tracker and the bus they all report on. It is created at session
// start and cleared with Reset.
type Workspace struct {
	Bus     *Bus
	Cache   *DefinitionCache
	List    *WorkingList
	Tracker *Tracker

	unsubscribe func()
}

// NewWorkspace wires a fresh cache, list and tracker on a new bus. The list view is
// recomputed whenever cached definitions change, since filters and sorts read them.
func NewWorkspace() *Workspace {
	bus := NewBus()
	cache := NewDefinitionCache(bus)
	workspace := &Workspace{
		Bus:     bus,
		Cache:   cache,
		List:    NewWorkingList(cache, bus),
		Tracker: NewTracker(bus),
	}
	workspace.unsubscribe = bus.Subscribe(func(event Event) {
		if event.Kind == EventCacheChanged {
			workspace.List.Refresh()
		}
	})
	return workspace
}

// Reset clears the list, the cache and every loading state.
func (w *Workspace) Reset() {
	w.List.RemoveAll()
	w.List.Transform(nil, nil)
	w.Cache.Reset()
	w.Tracker.Reset()
}

// Close detaches the workspace's own subscriptions from the bus.
func (w *Workspace) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}
