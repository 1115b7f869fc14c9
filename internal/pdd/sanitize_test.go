package pdd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMarkup_KeepsAllowedSubset(t *testing.T) {
	in := "<p>Intro</p><ul><li><strong>Bold</strong> and <em>italic</em></li></ul><ol><li>One</li></ol>"
	assert.Equal(t, in, SanitizeMarkup(in))
}

func TestSanitizeMarkup_DropsEverythingElse(t *testing.T) {
	cases := map[string]string{
		`<h1>Title</h1><p>Body</p>`:            "Title<p>Body</p>",
		`<p style="color:red">Text</p>`:        "<p>Text</p>",
		`<a href="http://x">link</a>`:          "link",
		`<div><p>Nested</p></div>`:             "<p>Nested</p>",
		`<p>Keep</p><iframe src="x"></iframe>`: "<p>Keep</p>",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeMarkup(in), "input: %s", in)
	}
}

func TestStripMarkup_ReturnsPlainText(t *testing.T) {
	assert.Equal(t, "Invoice Processing", StripMarkup("<p>Invoice Processing</p>"))
	assert.Equal(t, "Bold text", StripMarkup("<strong>Bold</strong> text"))
	assert.Equal(t, "", StripMarkup("<p>   </p>"))
}

func TestProcessName_DerivedFromFirstSection(t *testing.T) {
	secs := []Section{
		{Name: "Project Name", Content: "<p>Invoice Processing</p>"},
		{Name: "Purpose", Content: "<p>Pay vendors.</p>"},
	}
	assert.Equal(t, "Invoice Processing", ProcessName(secs))
}

func TestProcessName_FallsBackWhenEmpty(t *testing.T) {
	assert.Equal(t, DefaultProcessName, ProcessName(nil))
	assert.Equal(t, DefaultProcessName, ProcessName([]Section{{Name: "Project Name", Content: ""}}))
	assert.Equal(t, DefaultProcessName, ProcessName([]Section{{Name: "Project Name", Content: "<p> </p>"}}))
}
