package ui

import (
	"github.com/Qi-2007/musicgate/internal/models"
)

type searchDoneMsg struct {
	tracks []models.Track
	err    error
}

type linkResolvedMsg struct {
	url string
	err error
}

type lyricFetchedMsg struct {
	doc *models.LyricDocument
	err error
}
