// Package ui provides constants for layout calculations and configuration.
package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// ComposerMinLines is the textarea height when the composer is collapsed
	ComposerMinLines = 1

	// ComposerMaxLines is the tallest the textarea grows before it scrolls
	ComposerMaxLines = 6

	// ComposerBorderHeight is the border size around the textarea
	ComposerBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the composer (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// GutterWidth is the width of the bar drawn left of each message body
	GutterWidth = 2

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight bound the layout from below
	MinTerminalWidth  = 20
	MinTerminalHeight = 8
)

// Animation timing
const (
	// HighlightFrames is how many ticks a newly inserted message stays highlighted
	HighlightFrames = 4

	// HighlightInterval is the time between highlight ticks
	HighlightInterval = 120 * time.Millisecond

	// SelectionFlashDuration is how long a copied selection flashes
	SelectionFlashDuration = 150 * time.Millisecond
)

// Mouse selection
const (
	doubleClickThreshold = 500 * time.Millisecond
	clickTolerance       = 2 // cells
)
