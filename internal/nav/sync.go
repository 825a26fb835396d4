package nav

import "sync"

// History abstracts the address bar: Push adds an entry, Replace rewrites
// the current one. Neither reloads.
type History interface {
	Push(path string)
	Replace(path string)
}

// PageViews receives a fire-and-forget page-view event per outbound page
// change.
type PageViews interface {
	PageView(path, subject, email string, registered bool)
}

// Viewer identifies the current user on page-view events; zero value means
// anonymous.
type Viewer struct {
	Subject    string
	Email      string
	Registered bool
}

// Synchronizer keeps the page identifier and the address bar in sync.
// Outbound (SetPage) pushes the canonical path and emits a page view;
// inbound (OnLocationChange, the popstate reaction) only re-derives the
// page and never pushes back, so back/forward cannot echo.
type Synchronizer struct {
	mu      sync.Mutex
	page    Page
	viewer  Viewer
	history History
	views   PageViews
}

func NewSynchronizer(history History, views PageViews) *Synchronizer {
	return &Synchronizer{page: PageHome, history: history, views: views}
}

func (s *Synchronizer) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// SetViewer updates the identity attached to subsequent page-view events.
func (s *Synchronizer) SetViewer(v Viewer) {
	s.mu.Lock()
	s.viewer = v
	s.mu.Unlock()
}

// SetPage is the outbound direction: update state, push the path, emit the
// page view. Setting the current page again is a no-op.
func (s *Synchronizer) SetPage(p Page) {
	s.mu.Lock()
	if p == s.page {
		s.mu.Unlock()
		return
	}
	s.page = p
	viewer := s.viewer
	s.mu.Unlock()

	path := p.Path()
	if s.history != nil {
		s.history.Push(path)
	}
	if s.views != nil {
		s.views.PageView(path, viewer.Subject, viewer.Email, viewer.Registered)
	}
}

// OnLocationChange is the inbound direction (browser back/forward): derive
// the page from the path and update state only.
func (s *Synchronizer) OnLocationChange(path string) {
	page := PageFor(path)
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
}

// Apply consumes a Resolution: land on its page, replace the address bar
// with the canonical (intent-stripped) URL and emit the page view. Replace,
// not push — stripping intents must not grow history.
func (s *Synchronizer) Apply(res Resolution) {
	s.mu.Lock()
	s.page = res.Page
	viewer := s.viewer
	s.mu.Unlock()

	if s.history != nil {
		s.history.Replace(res.CanonicalURL)
	}
	if s.views != nil {
		s.views.PageView(res.Page.Path(), viewer.Subject, viewer.Email, viewer.Registered)
	}
}
