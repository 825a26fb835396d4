package nav

// Page is the enumerated page identifier kept in sync with the browser path.
type Page int

const (
	PageHome Page = iota
	PagePricing
	PageDashboard
	PageGallery
	PageAdmin
	PageSupport
	PageImageStudio
	PageVideoStudio
	PageVoiceStudio
	PageChatStudio
)

var pagePaths = map[Page]string{
	PageHome:        "/",
	PagePricing:     "/pricing",
	PageDashboard:   "/dashboard",
	PageGallery:     "/gallery",
	PageAdmin:       "/admin",
	PageSupport:     "/support",
	PageImageStudio: "/studio/image",
	PageVideoStudio: "/studio/video",
	PageVoiceStudio: "/studio/voice",
	PageChatStudio:  "/studio/chat",
}

var pathPages = func() map[string]Page {
	m := make(map[string]Page, len(pagePaths))
	for page, path := range pagePaths {
		m[path] = page
	}
	return m
}()

// Pages lists every enumerated page, for round-trip checks and sitemaps.
func Pages() []Page {
	pages := make([]Page, 0, len(pagePaths))
	for p := range pagePaths {
		pages = append(pages, p)
	}
	return pages
}

// Path returns the canonical browser path for the page.
func (p Page) Path() string {
	if path, ok := pagePaths[p]; ok {
		return path
	}
	return "/"
}

func (p Page) String() string {
	switch p {
	case PagePricing:
		return "pricing"
	case PageDashboard:
		return "dashboard"
	case PageGallery:
		return "gallery"
	case PageAdmin:
		return "admin"
	case PageSupport:
		return "support"
	case PageImageStudio:
		return "image_studio"
	case PageVideoStudio:
		return "video_studio"
	case PageVoiceStudio:
		return "voice_studio"
	case PageChatStudio:
		return "chat_studio"
	default:
		return "home"
	}
}

// PageFor maps a browser path back to a page identifier. Unknown paths fall
// back to home; trailing slashes are tolerated.
func PageFor(path string) Page {
	if path == "" {
		return PageHome
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if page, ok := pathPages[path]; ok {
		return page
	}
	return PageHome
}
