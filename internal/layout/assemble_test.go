package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_TwoPageDocument(t *testing.T) {
	result := &ParseResult{
		LayoutParsingResults: []PageResult{
			{
				PrunedResult: PrunedResult{ParsingResList: []Block{
					{BlockLabel: "title", BlockContent: "Report"},
					{BlockLabel: "table", BlockContent: "<table><tr><td>1</td></tr></table>"},
				}},
			},
			{
				PrunedResult: PrunedResult{ParsingResList: []Block{
					{BlockLabel: "image", BlockContent: "imgs/photo.jpg"},
				}},
				Markdown: PageMarkdown{Images: map[string]string{
					"imgs/photo.jpg": "https://cdn.example.com/photo.jpg",
				}},
			},
		},
	}

	md := Assemble(result)

	assert.Contains(t, md, "## Report")
	assert.Contains(t, md, "<table><tr><td>1</td></tr></table>")
	assert.Contains(t, md, "![image](https://cdn.example.com/photo.jpg)")
	assert.Contains(t, md, "\n\n---\n\n")

	idx1 := strings.Index(md, PageAnchor(1))
	idx2 := strings.Index(md, PageAnchor(2))
	require.GreaterOrEqual(t, idx1, 0)
	require.Greater(t, idx2, idx1)
}

func TestAssemble_AnchorPerPage(t *testing.T) {
	pages := make([]PageResult, 5)
	for i := range pages {
		pages[i] = PageResult{PrunedResult: PrunedResult{ParsingResList: []Block{
			{BlockLabel: "text", BlockContent: fmt.Sprintf("page %d body", i+1)},
		}}}
	}
	md := Assemble(&ParseResult{LayoutParsingResults: pages})

	last := -1
	for n := 1; n <= 5; n++ {
		anchor := PageAnchor(n)
		assert.Equal(t, 1, strings.Count(md, anchor))
		pos := strings.Index(md, anchor)
		assert.Greater(t, pos, last)
		last = pos
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	result := &ParseResult{
		LayoutParsingResults: []PageResult{
			{
				PrunedResult: PrunedResult{ParsingResList: []Block{
					{BlockLabel: "text", BlockContent: "see imgs/a.jpg and imgs/b.jpg"},
				}},
			},
		},
		Images: map[string]string{
			"imgs/a.jpg": "https://cdn.example.com/a.jpg",
			"imgs/b.jpg": "https://cdn.example.com/b.jpg",
		},
	}

	first := Assemble(result)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Assemble(result))
	}
}

func TestAssemble_NoSilentDrop(t *testing.T) {
	page := PageResult{PrunedResult: PrunedResult{ParsingResList: []Block{
		{BlockLabel: "title", BlockContent: "T"},
		{BlockLabel: "header", BlockContent: "H"},
		{BlockLabel: "footer", BlockContent: "F"},
		{BlockLabel: "table", BlockContent: "<table></table>"},
		{BlockLabel: "image", BlockContent: "imgs/unresolved.jpg"},
		{BlockLabel: "weird_label", BlockContent: "plain paragraph"},
	}}}

	md := RenderPage(page)
	for _, want := range []string{"T", "H", "F", "<table></table>", "imgs/unresolved.jpg", "plain paragraph"} {
		assert.Contains(t, md, want)
	}
}

func TestAssemble_GlobalImageRewrite(t *testing.T) {
	result := &ParseResult{
		LayoutParsingResults: []PageResult{
			{PrunedResult: PrunedResult{ParsingResList: []Block{
				{BlockLabel: "text", BlockContent: `raw ref imgs/fig1.png and <img src="local/fig1.png">`},
			}}},
		},
		Images: map[string]string{"imgs/fig1.png": "https://cdn.example.com/fig1.png"},
	}

	md := Assemble(result)
	assert.Contains(t, md, "raw ref https://cdn.example.com/fig1.png")
	assert.Contains(t, md, `src="https://cdn.example.com/fig1.png"`)
	assert.NotContains(t, md, `src="local/fig1.png"`)
}

func TestAssemble_SrcRewriteSkipsAbsoluteURLs(t *testing.T) {
	text := `<img src="https://other.example.com/fig1.png"><img src="data:image/png;base64,fig1.png">`
	out := rewriteSrcForKey(text, "imgs/fig1.png", "https://cdn.example.com/fig1.png")
	assert.Equal(t, text, out)
}

func TestAssemble_UnpaginatedFallbacks(t *testing.T) {
	md := Assemble(&ParseResult{Markdown: "# raw output"})
	assert.Equal(t, "# raw output", md)

	assert.Equal(t, fallbackMarkdown, Assemble(&ParseResult{}))
	assert.Equal(t, fallbackMarkdown, Assemble(nil))
}

func TestNormalizeMath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "wraps bare environment",
			in:   "text\n\\begin{align}x=1\\end{align}\nmore",
			want: "text\n$$\n\\begin{align}x=1\\end{align}\n$$\nmore",
		},
		{
			name: "wraps starred variant",
			in:   "\\begin{equation*}y\\end{equation*}",
			want: "$$\n\\begin{equation*}y\\end{equation*}\n$$",
		},
		{
			name: "ignores unknown environment",
			in:   "\\begin{matrix}z\\end{matrix}",
			want: "\\begin{matrix}z\\end{matrix}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMath(tt.in))
		})
	}
}

func TestNormalizeMath_NotIdempotent(t *testing.T) {
	// The transform matches the inner environment regardless of context, so
	// reapplying it to already wrapped text wraps again.
	once := NormalizeMath("\\begin{gather}a\\end{gather}")
	twice := NormalizeMath(once)
	assert.NotEqual(t, once, twice)
}
