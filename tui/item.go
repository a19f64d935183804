// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/goflix/goflix/catalog"
	"github.com/goflix/goflix/icon"
	"github.com/goflix/goflix/style"
	"github.com/goflix/goflix/util"
)

// listItem implements the list.Item interface, wrapping catalog records for terminal display.
type listItem struct {
	internal interface{}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case *catalog.Category:
		return fmt.Sprintf("%s %s", icon.Get(icon.Category), e.Name)
	case *catalog.Title:
		return e.Title
	case *catalog.Match:
		return e.Title.Title
	case string:
		return e
	default:
		return t.FilterValue()
	}
}

// Description retrieves the secondary metadata for the list item.
func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case *catalog.Category:
		return util.Quantify(len(e.Titles), "title", "titles")
	case *catalog.Title:
		return commentsSummary(len(e.Comments))
	case *catalog.Match:
		return strings.Join([]string{style.Tag(style.Text, style.Surface)(e.Category), commentsSummary(len(e.Title.Comments))}, " ")
	default:
		return ""
	}
}

// FilterValue returns the text used by list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Category:
		return e.Name
	case *catalog.Title:
		return e.Title
	case *catalog.Match:
		return e.Title.Title
	case string:
		return e
	default:
		return ""
	}
}

func commentsSummary(n int) string {
	if n == 0 {
		return style.Faint("no comments yet")
	}
	return style.Faint(util.Quantify(n, "comment", "comments"))
}
