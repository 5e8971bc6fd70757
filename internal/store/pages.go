package store

import "github.com/agentic-research/opal/internal/doc"

// AddPage appends a new page and returns its id. A single-page document
// converts to multi-page form first: its root children become page one.
func (s *Store) AddPage(name string) string {
	s.mu.Lock()
	snapshot := s.doc.Clone()
	s.hist.Push(snapshot)
	if !s.doc.MultiPage() {
		s.doc.Pages = []*doc.Page{{
			ID:       doc.NewID(),
			Name:     "Page 1",
			Children: s.doc.Children,
		}}
		s.doc.Children = nil
	}
	page := &doc.Page{ID: doc.NewID(), Name: name}
	s.doc.Pages = append(s.doc.Pages, page)
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpPage, IDs: []string{page.ID}})
	return page.ID
}

// RemovePage deletes a page by id. The last remaining page cannot be
// removed.
func (s *Store) RemovePage(id string) {
	s.mu.Lock()
	if len(s.doc.Pages) < 2 {
		s.mu.Unlock()
		return
	}
	index := -1
	for i, p := range s.doc.Pages {
		if p.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	s.hist.Push(snapshot)
	s.doc.Pages = append(s.doc.Pages[:index], s.doc.Pages[index+1:]...)
	s.clampActivePage()
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpPage, IDs: []string{id}})
}

// RenamePage sets a page's display name.
func (s *Store) RenamePage(id, name string) {
	s.mu.Lock()
	var target *doc.Page
	for _, p := range s.doc.Pages {
		if p.ID == id {
			target = p
			break
		}
	}
	if target == nil || target.Name == name {
		s.mu.Unlock()
		return
	}
	snapshot := s.doc.Clone()
	s.hist.Push(snapshot)
	target.Name = name
	s.dirty = true
	s.mu.Unlock()
	s.notify(Event{Op: OpPage, IDs: []string{id}})
}

// SetActivePage switches which page mutations and reads target. View
// state: no history entry.
func (s *Store) SetActivePage(index int) {
	s.mu.Lock()
	if index < 0 || (s.doc.MultiPage() && index >= len(s.doc.Pages)) || (!s.doc.MultiPage() && index != 0) {
		s.mu.Unlock()
		return
	}
	if index == s.activePage {
		s.mu.Unlock()
		return
	}
	s.activePage = index
	s.mu.Unlock()
	s.notify(Event{Op: OpPage})
}
