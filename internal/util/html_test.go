package util

import "testing"

func TestStripHTML_RemovesTags(t *testing.T) {
	in := "<p>A novel <b>set in</b> Paris, France.</p>"
	got := StripHTML(in)

	want := "A novel set in Paris, France."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStripHTML_SkipsScriptsAndStyles(t *testing.T) {
	in := `<div><script>var x = "Tokyo";</script><style>.a{}</style>Osaka prose</div>`
	got := StripHTML(in)

	if got != "Osaka prose" {
		t.Errorf("Expected 'Osaka prose', got %q", got)
	}
}

func TestStripHTML_PlainTextPassthrough(t *testing.T) {
	in := "No markup at all."
	if got := StripHTML(in); got != in {
		t.Errorf("Expected passthrough, got %q", got)
	}
}
