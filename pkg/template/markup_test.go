package template_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpanda/mailmerge/pkg/template"
)

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	t.Run("escapes row data before markup expansion", func(t *testing.T) {
		t.Parallel()

		got := template.RenderHTML("<script>alert(1)</script> & co")
		require.NotContains(t, got, "<script>")
		require.Contains(t, got, "&lt;script&gt;")
		require.Contains(t, got, "&amp; co")
	})

	t.Run("bold markers become strong", func(t *testing.T) {
		t.Parallel()

		got := template.RenderHTML("a **bold** word")
		require.Equal(t, "a <strong>bold</strong> word", got)
	})

	t.Run("links become anchors for safe schemes", func(t *testing.T) {
		t.Parallel()

		got := template.RenderHTML("[site](https://x.com)")
		require.Equal(t, `<a href="https://x.com" target="_blank" rel="noopener noreferrer">site</a>`, got)

		got = template.RenderHTML("[write](mailto:a@b.com)")
		require.Contains(t, got, `href="mailto:a@b.com"`)
	})

	t.Run("javascript scheme stays bracket markup", func(t *testing.T) {
		t.Parallel()

		got := template.RenderHTML("[click](javascript:alert(1))")
		require.NotContains(t, got, "<a ")
		require.Contains(t, got, "[click](javascript:alert(1")
	})

	t.Run("newlines become breaks", func(t *testing.T) {
		t.Parallel()

		got := template.RenderHTML("one\ntwo")
		require.Equal(t, "one<br>\ntwo", got)
	})

	t.Run("bold inside link label", func(t *testing.T) {
		t.Parallel()

		got := template.RenderHTML("[**bold**](https://x.com)")
		require.Contains(t, got, "<strong>bold</strong>")
		require.Contains(t, got, `href="https://x.com"`)
	})
}

func TestRenderPlain(t *testing.T) {
	t.Parallel()

	t.Run("links become label url", func(t *testing.T) {
		t.Parallel()

		got := template.RenderPlain("see [site](https://x.com) now")
		require.Equal(t, "see site (https://x.com) now", got)
	})

	t.Run("bold markers stripped", func(t *testing.T) {
		t.Parallel()

		got := template.RenderPlain("a **bold** word")
		require.Equal(t, "a bold word", got)
	})

	t.Run("never escapes", func(t *testing.T) {
		t.Parallel()

		got := template.RenderPlain("a < b & c")
		require.Equal(t, "a < b & c", got)
	})
}

func TestRenderHTML_NoUnescapedRowData(t *testing.T) {
	t.Parallel()

	row := template.Row{"Name": `<b>"evil" & friends</b>`}
	resolved := template.Resolve(row, nil, "Hi {{Name}}", "", nil)
	html := template.RenderHTML(resolved)

	stripped := html
	for _, tag := range []string{"<strong>", "</strong>", "<br>", "<a ", "</a>"} {
		stripped = strings.ReplaceAll(stripped, tag, "")
	}
	require.NotContains(t, stripped, "<b>")
	require.Contains(t, html, "&lt;b&gt;")
}
