package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	pushes   []string
	replaces []string
}

func (h *fakeHistory) Push(path string)    { h.pushes = append(h.pushes, path) }
func (h *fakeHistory) Replace(path string) { h.replaces = append(h.replaces, path) }

type fakeViews struct {
	paths    []string
	subjects []string
}

func (v *fakeViews) PageView(path, subject, _ string, _ bool) {
	v.paths = append(v.paths, path)
	v.subjects = append(v.subjects, subject)
}

func TestSetPagePushesAndEmits(t *testing.T) {
	history := &fakeHistory{}
	views := &fakeViews{}
	s := NewSynchronizer(history, views)
	s.SetViewer(Viewer{Subject: "abc", Email: "x@y.com", Registered: true})

	s.SetPage(PagePricing)

	assert.Equal(t, PagePricing, s.Page())
	assert.Equal(t, []string{"/pricing"}, history.pushes)
	require.Len(t, views.paths, 1)
	assert.Equal(t, "/pricing", views.paths[0])
	assert.Equal(t, "abc", views.subjects[0])
}

func TestSetPageSameIsNoop(t *testing.T) {
	history := &fakeHistory{}
	s := NewSynchronizer(history, nil)

	s.SetPage(PageGallery)
	s.SetPage(PageGallery)

	assert.Equal(t, []string{"/gallery"}, history.pushes)
}

func TestOnLocationChangeDoesNotPushBack(t *testing.T) {
	history := &fakeHistory{}
	views := &fakeViews{}
	s := NewSynchronizer(history, views)

	// Browser back/forward: URL → state only, never a new history entry or
	// page-view echo.
	s.OnLocationChange("/dashboard")

	assert.Equal(t, PageDashboard, s.Page())
	assert.Empty(t, history.pushes)
	assert.Empty(t, views.paths)
}

func TestApplyReplacesWithCanonicalURL(t *testing.T) {
	history := &fakeHistory{}
	views := &fakeViews{}
	s := NewSynchronizer(history, views)

	res := Resolution{Page: PageDashboard, CanonicalURL: "/dashboard"}
	s.Apply(res)

	assert.Equal(t, PageDashboard, s.Page())
	assert.Empty(t, history.pushes, "intent stripping must not grow history")
	assert.Equal(t, []string{"/dashboard"}, history.replaces)
	assert.Equal(t, []string{"/dashboard"}, views.paths)
}

func TestSetPageRoundTripThroughHistory(t *testing.T) {
	history := &fakeHistory{}
	s := NewSynchronizer(history, nil)

	for _, page := range Pages() {
		// Land somewhere else first so SetPage is never a same-page no-op.
		if page == PagePricing {
			s.OnLocationChange(PageHome.Path())
		} else {
			s.OnLocationChange(PagePricing.Path())
		}
		s.SetPage(page)
		require.Equal(t, page, PageFor(history.pushes[len(history.pushes)-1]),
			"path pushed for %s must re-derive the same page", page)
	}
}
