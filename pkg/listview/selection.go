package listview

// ToggleSelected adds id to the selection if absent, otherwise removes it.
// Ids not present in the current collection are ignored. It reports whether
// id is selected afterwards.
func (m *Model[T]) ToggleSelected(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasIDLocked(id) {
		return false
	}

	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		return false
	}

	m.selected[id] = struct{}{}

	return true
}

// Select adds the given ids to the selection, skipping unknown ones.
func (m *Model[T]) Select(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	known := m.idSetLocked()
	for _, id := range ids {
		if _, ok := known[id]; ok {
			m.selected[id] = struct{}{}
		}
	}
}

// SelectVisible adds every item of the current page to the selection.
func (m *Model[T]) SelectVisible() {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.filteredLocked()
	start, end := PageBounds(m.current, m.pageSize, len(filtered))

	for _, item := range filtered[start:end] {
		m.selected[m.schema.ID(item)] = struct{}{}
	}
}

// IsSelected reports whether id is selected.
func (m *Model[T]) IsSelected(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.selected[id]

	return ok
}

// SelectedIDs returns the selected ids in collection order.
func (m *Model[T]) SelectedIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.selected))
	for _, item := range m.items {
		id := m.schema.ID(item)
		if _, ok := m.selected[id]; ok {
			ids = append(ids, id)
		}
	}

	return ids
}

// SelectionCount returns the number of selected ids.
func (m *Model[T]) SelectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.selected)
}

// ClearSelection empties the selection.
func (m *Model[T]) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.selected)
}

func (m *Model[T]) hasIDLocked(id string) bool {
	for _, item := range m.items {
		if m.schema.ID(item) == id {
			return true
		}
	}

	return false
}

func (m *Model[T]) idSetLocked() map[string]struct{} {
	known := make(map[string]struct{}, len(m.items))
	for _, item := range m.items {
		known[m.schema.ID(item)] = struct{}{}
	}

	return known
}

// reconcileSelectionLocked drops ids that are no longer in the collection.
func (m *Model[T]) reconcileSelectionLocked() {
	if len(m.selected) == 0 {
		return
	}

	known := m.idSetLocked()
	for id := range m.selected {
		if _, ok := known[id]; !ok {
			delete(m.selected, id)
		}
	}
}
