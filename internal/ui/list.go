package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/localnext/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = nameItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string { return i.track.Artist }

// nameItem wraps an unresolved or skipped concert name to implement [list.Item].
type nameItem struct {
	name   string
	reason string
}

func (i nameItem) FilterValue() string { return i.name }
func (i nameItem) Title() string       { return i.name }
func (i nameItem) Description() string { return fmt.Sprintf("(%s)", i.reason) }
