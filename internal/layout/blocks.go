package layout

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var mdImageRe = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

var imageLabels = map[string]bool{
	"image":        true,
	"chart":        true,
	"figure":       true,
	"header_image": true,
	"footer_image": true,
}

// RenderPage converts one page's ordered block list into a Markdown fragment.
// Block order is the upstream reading order and is preserved as-is.
func RenderPage(page PageResult) string {
	images := page.Markdown.Images
	var b strings.Builder

	for _, block := range page.PrunedResult.ParsingResList {
		label := block.BlockLabel
		content := block.BlockContent

		switch {
		case label == "title":
			b.WriteString("## " + content + "\n\n")
		case label == "header":
			b.WriteString("*" + content + "*\n\n")
		case imageLabels[label]:
			url := resolveImageURL(block, images)
			switch {
			case strings.TrimSpace(url) != "":
				b.WriteString("![" + label + "](" + url + ")\n\n")
			case strings.TrimSpace(content) != "":
				if strings.Contains(content, "![") {
					b.WriteString(content + "\n\n")
				} else {
					b.WriteString("![" + label + "](" + content + ")\n\n")
				}
			}
		default:
			// Tables arrive as raw HTML and pass through untouched, same as
			// plain text paragraphs.
			b.WriteString(content + "\n\n")
		}
	}

	return rewriteSrcAttrs(b.String(), images)
}

// resolveImageURL looks up a block's image URL in the page image map, trying
// in order: the exact content key (after unwrapping Markdown image syntax), a
// filename suffix match, and a key synthesized from the block's bbox.
func resolveImageURL(block Block, images map[string]string) string {
	content := block.BlockContent

	if strings.TrimSpace(content) != "" {
		path := content
		if m := mdImageRe.FindStringSubmatch(content); m != nil && m[1] != "" {
			path = m[1]
		}
		if url, ok := images[path]; ok && url != "" {
			return url
		}
		if filename := baseName(path); filename != "" {
			for _, k := range sortedKeys(images) {
				if strings.HasSuffix(k, filename) && images[k] != "" {
					return images[k]
				}
			}
		}
		if url, ok := images[content]; ok && url != "" {
			return url
		}
	}

	// Keys like imgs/img_in_chart_box_232_646_843_915.jpg are derived from
	// the detected bbox when the content carries no usable path.
	if len(block.BlockBBox) >= 4 {
		parts := make([]string, len(block.BlockBBox))
		for i, v := range block.BlockBBox {
			parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		key := fmt.Sprintf("imgs/img_in_%s_box_%s.jpg", block.BlockLabel, strings.Join(parts, "_"))
		if url, ok := images[key]; ok && url != "" {
			return url
		}
	}

	return ""
}

func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// rewriteSrcAttrs rewrites HTML src attributes whose filename suffix matches
// a key in the image map, skipping absolute http and data URLs.
func rewriteSrcAttrs(text string, images map[string]string) string {
	for _, key := range sortedKeys(images) {
		text = rewriteSrcForKey(text, key, images[key])
	}
	return text
}

// sortedKeys fixes the lookup order over an image map. Map iteration order is
// randomized, and the same filename suffix can match more than one key.
func sortedKeys(images map[string]string) []string {
	keys := make([]string, 0, len(images))
	for k := range images {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rewriteSrcForKey(text, key, url string) string {
	filename := baseName(key)
	if filename == "" {
		return text
	}
	re := regexp.MustCompile(`src=["']([^"']*` + regexp.QuoteMeta(filename) + `)["']`)
	return re.ReplaceAllStringFunc(text, func(m string) string {
		path := re.FindStringSubmatch(m)[1]
		if strings.HasPrefix(path, "http") || strings.HasPrefix(path, "data:") {
			return m
		}
		return `src="` + url + `"`
	})
}
