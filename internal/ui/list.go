package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/mixt/internal/library"
)

var _ list.Item = sourceItem{}

// sourceItem wraps one scanned playlist export to implement [list.Item].
// The checkbox renders the item's inclusion in the mix.
type sourceItem struct {
	path     string
	rows     int
	selected bool
}

func (i sourceItem) FilterValue() string { return library.BaseName(i.path) }

func (i sourceItem) Title() string {
	box := "[ ]"
	if i.selected {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s", box, library.BaseName(i.path))
}

func (i sourceItem) Description() string {
	return fmt.Sprintf("%d rows • %s", i.rows, i.path)
}
