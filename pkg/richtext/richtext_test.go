package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScripts(t *testing.T) {
	dirty := `<p>hello</p><script>alert("x")</script>`
	assert.Equal(t, "<p>hello</p>", Sanitize(dirty))
}

func TestSanitizeKeepsFormatting(t *testing.T) {
	clean := "<p><strong>CS scholar</strong> at <em>MIT</em></p>"
	assert.Equal(t, clean, Sanitize(clean))
}

func TestSanitizeDropsEventHandlers(t *testing.T) {
	dirty := `<p onclick="steal()">bio</p>`
	assert.Equal(t, "<p>bio</p>", Sanitize(dirty))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("<p></p>"))
	assert.True(t, IsEmpty("<p>   </p>"))
	assert.False(t, IsEmpty("<p>about me</p>"))
}
