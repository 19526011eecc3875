// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a live now-playing dashboard over the session manager:
//  1. [NowPlayingView] : Current track, playback progress, and connection state
//  2. [LyricsView] : Lyrics for the current track, cache-first
//  3. [MeaningView] : AI interpretation rendered line by line
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Session updates flow through the manager's subscription channel, pumped back
// into the event loop as messages so the model never blocks on I/O.
package ui
