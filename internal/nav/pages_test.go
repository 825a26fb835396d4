package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagePathRoundTrip(t *testing.T) {
	for _, page := range Pages() {
		assert.Equal(t, page, PageFor(page.Path()), "round trip for %s", page)
	}
}

func TestPageForUnknownFallsBackToHome(t *testing.T) {
	for _, path := range []string{"/nope", "/studio", "/admin/secret", "", "/PRICING"} {
		assert.Equal(t, PageHome, PageFor(path), "path %q", path)
	}
}

func TestPageForToleratesTrailingSlash(t *testing.T) {
	assert.Equal(t, PagePricing, PageFor("/pricing/"))
	assert.Equal(t, PageHome, PageFor("/"))
}
