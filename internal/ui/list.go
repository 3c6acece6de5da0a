package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/Qi-2007/musicgate/internal/models"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string { return i.track.Artist }
