// Package ui provides the terminal components of scrollback.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────────────────────────────────────────┤
//	│                                                     │
//	│   Transcript                                        │
//	│                                                     │
//	│ ╭─────────────────────────────────────────────────╮ │
//	│ │ Composer (docked over the transcript bottom)    │ │
//	│ ╰─────────────────────────────────────────────────╯ │
//	├─────────────────────────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: Singleton that manages centralized layout calculations.
//
// Transcript: The message list on a bubbles viewport. It is the rendering
// surface snapshots are applied to and the viewport the line layout is
// measured against. The composer covers its bottom rows; that overlap is the
// transcript's bottom inset.
//
// Composer: A textarea that grows with its draft while focused and collapses
// when blurred. Every change of height is announced as a FrameWillChangeMsg
// so the transcript can hold its bottom edge in place.
//
// Header: Application title, conversation name and in-progress actions on a
// gradient background.
//
// Footer: Context-aware key bindings, replaced by flash messages for errors.
//
// # Text Selection
//
// Dragging with the left button selects text on the transcript; a double
// click selects a word and a triple click the message under the pointer.
// Releasing the button copies the selection. Selection coordinates are
// relative to the visible transcript rows (0,0 is the first row below the
// header) and are only valid for the scroll offset they were made at, so
// scrolling drops the selection. The highlight is painted on an ultraviolet
// screen buffer over the rendered rows.
//
// # Styles
//
// All styles live in styles.go and are regenerated from the current Theme by
// SetTheme.
package ui
