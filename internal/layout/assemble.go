package layout

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackMarkdown is shown when the response carries neither paginated
// results nor a top-level markdown field.
const fallbackMarkdown = "解析成功"

const pageSeparator = "\n\n---\n\n"

var mathEnvRe = regexp.MustCompile(
	`(\\begin\{(align|equation|gather|alignat|flalign|split|multline)\*?\}[\s\S]*?\\end\{(align|equation|gather|alignat|flalign|split|multline)\*?\})`)

// PageAnchor returns the invisible marker that prefixes each page fragment.
// The id is the scroll-sync join point and must survive Markdown rendering.
func PageAnchor(page int) string {
	return fmt.Sprintf(`<div id="markdown-page-%d" data-page="%d" class="markdown-page-marker" style="height: 1px; width: 100%%; visibility: hidden;"></div>`, page, page)
}

// Assemble renders the full response into a single Markdown document:
// per-page fragments prefixed with page anchors and joined by horizontal
// rules, followed by a global image rewrite pass and math normalization.
// The output is deterministic for a given response.
func Assemble(result *ParseResult) string {
	if result == nil {
		return fallbackMarkdown
	}

	var combined string
	if len(result.LayoutParsingResults) > 0 {
		fragments := make([]string, len(result.LayoutParsingResults))
		for i, page := range result.LayoutParsingResults {
			fragments[i] = PageAnchor(i+1) + "\n\n" + RenderPage(page)
		}
		combined = strings.Join(fragments, pageSeparator)
	} else if result.Markdown != "" {
		combined = result.Markdown
	} else {
		combined = fallbackMarkdown
	}

	combined = rewriteGlobalImages(combined, result.Images)
	return NormalizeMath(combined)
}

// rewriteGlobalImages replaces remaining raw key references with their URLs
// and rewrites matching src attributes. Keys are applied in sorted order so
// reassembly is byte-stable regardless of map iteration order.
func rewriteGlobalImages(text string, images map[string]string) string {
	if len(images) == 0 {
		return text
	}
	for _, key := range sortedKeys(images) {
		url := images[key]
		text = strings.ReplaceAll(text, key, url)
		text = rewriteSrcForKey(text, key, url)
	}
	return text
}

// NormalizeMath wraps bare LaTeX display environments in $$ delimiters. It is
// a textual transform, not a parser: it does not detect pre-existing $$
// wrapping, so running it over its own output wraps twice. Callers must only
// apply it once, to raw assembled text.
func NormalizeMath(text string) string {
	return mathEnvRe.ReplaceAllString(text, "$$$$\n$1\n$$$$")
}
