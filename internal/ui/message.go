package ui

import (
	"github.com/desertthunder/lyrix/internal/models"
	"github.com/desertthunder/lyrix/internal/session"
)

// sessionUpdateMsg carries a snapshot from the session manager.
type sessionUpdateMsg session.Update

// subscriptionClosedMsg signals the manager subscription channel was closed.
type subscriptionClosedMsg struct{}

// lyricsFetchedMsg carries the result of a lyrics lookup.
type lyricsFetchedMsg struct {
	lyrics *models.Lyrics
	cached bool
	err    error
}

// meaningFetchedMsg carries the result of an AI interpretation lookup.
type meaningFetchedMsg struct {
	meaning *models.Meaning
	err     error
}
