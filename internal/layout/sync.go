package layout

import (
	"log"
	"regexp"
	"strings"
	"sync"
	"time"
)

// HighlightDuration is how long a located text run stays highlighted before
// reverting.
const HighlightDuration = 1500 * time.Millisecond

// VisibilityThreshold is the minimum fraction of a page that must be visible
// before it can become the current page.
const VisibilityThreshold = 0.5

const maxSearchLength = 50

// MarkdownScroller receives scroll commands for the assembled Markdown panel.
// Scrolling is always container-relative; the two panels are independently
// scrollable siblings and an ancestor scroll would move both.
type MarkdownScroller interface {
	ScrollToAnchor(page int)
	ScrollToRun(runIndex int)
}

// TextRun is one rendered text node of the Markdown panel, tagged with the
// page whose anchor precedes it.
type TextRun struct {
	Page int
	Text string
}

// SyncController keeps the rendered page view and the Markdown view aligned.
// It tracks the current page and suppresses visibility callbacks while a
// programmatic scroll is in flight so the two directions cannot fight.
type SyncController struct {
	mu          sync.Mutex
	currentPage int
	scrolling   bool
	scroller    MarkdownScroller
}

func NewSyncController(scroller MarkdownScroller) *SyncController {
	return &SyncController{currentPage: 1, scroller: scroller}
}

// CurrentPage returns the 1-indexed page the views are aligned on.
func (c *SyncController) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

// ObservePageVisibility handles a visibility report from the page view. The
// first page at or above the threshold becomes current; a change scrolls the
// Markdown panel to that page's anchor. Reports arriving during a
// programmatic scroll are dropped.
func (c *SyncController) ObservePageVisibility(page int, ratio float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scrolling {
		return false
	}
	if ratio < VisibilityThreshold || page == c.currentPage {
		return false
	}
	c.currentPage = page
	if c.scroller != nil {
		c.scroller.ScrollToAnchor(page)
	}
	return true
}

// BeginProgrammaticScroll suppresses visibility handling until the matching
// EndProgrammaticScroll call.
func (c *SyncController) BeginProgrammaticScroll() {
	c.mu.Lock()
	c.scrolling = true
	c.mu.Unlock()
}

func (c *SyncController) EndProgrammaticScroll() {
	c.mu.Lock()
	c.scrolling = false
	c.mu.Unlock()
}

// LocateBlock finds the text run matching a clicked block's content within
// that block's page and scrolls the Markdown panel to it. A failed lookup is
// logged and otherwise silent; matching across an independently reflowed
// render is best-effort.
func (c *SyncController) LocateBlock(content string, page int, runs []TextRun) (int, bool) {
	idx, ok := LocateText(content, page, runs)
	if !ok {
		log.Printf("syncController.LocateBlock: text not found in page scope: page=%d", page)
		return -1, false
	}
	c.BeginProgrammaticScroll()
	defer c.EndProgrammaticScroll()
	if c.scroller != nil {
		c.scroller.ScrollToRun(idx)
	}
	return idx, true
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.ToLower(whitespaceRe.ReplaceAllString(s, ""))
}

// LocateText searches the runs belonging to the given 1-indexed page for the
// block content. Priority: an exact substring match of the first 50 cleaned
// characters wins; a run that is itself contained in the target is accepted
// when longer than 5 characters, and tracked as a best guess when longer
// than 2.
func LocateText(content string, page int, runs []TextRun) (int, bool) {
	target := cleanText(content)
	if len(target) > maxSearchLength {
		target = target[:maxSearchLength]
	}
	if target == "" {
		return -1, false
	}

	best := -1
	bestLen := 0
	for i, run := range runs {
		if run.Page != page {
			continue
		}
		text := cleanText(run.Text)
		if text == "" {
			continue
		}
		if strings.Contains(text, target) {
			return i, true
		}
		if strings.Contains(target, text) && len(text) > 2 {
			if len(text) > 5 {
				return i, true
			}
			if best < 0 || len(text) > bestLen {
				best = i
				bestLen = len(text)
			}
		}
	}
	if best >= 0 {
		return best, true
	}
	return -1, false
}
