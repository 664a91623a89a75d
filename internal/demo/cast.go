package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// clearScreen moves the cursor home and clears the display before each frame.
const clearScreen = "\x1b[H\x1b[2J"

// castHeader is the first line of an asciicast v2 file.
type castHeader struct {
	Version   int               `json:"version"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Timestamp int64             `json:"timestamp,omitempty"`
	Title     string            `json:"title,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
}

// CastOptions configures GenerateASCIICast.
type CastOptions struct {
	Title     string
	Timestamp time.Time
}

// GenerateASCIICast writes frames as an asciicast v2 recording. Each frame
// redraws the whole screen after its delay. Size changes become resize
// events and annotations become markers.
func GenerateASCIICast(w io.Writer, frames []Frame, width, height int, opts ...CastOptions) error {
	var o CastOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	header := castHeader{
		Version: 2,
		Width:   width,
		Height:  height,
		Title:   o.Title,
		Env:     map[string]string{"TERM": "xterm-256color", "SHELL": "/bin/sh"},
	}
	if !o.Timestamp.IsZero() {
		header.Timestamp = o.Timestamp.Unix()
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("writing cast header: %w", err)
	}

	var elapsed time.Duration
	curW, curH := width, height
	for i, f := range frames {
		elapsed += f.Delay
		t := elapsed.Seconds()

		if f.Width > 0 && f.Height > 0 && (f.Width != curW || f.Height != curH) {
			curW, curH = f.Width, f.Height
			if err := enc.Encode([]any{t, "r", fmt.Sprintf("%dx%d", curW, curH)}); err != nil {
				return fmt.Errorf("writing resize for frame %d: %w", i, err)
			}
		}
		if f.Annotation != "" {
			if err := enc.Encode([]any{t, "m", f.Annotation}); err != nil {
				return fmt.Errorf("writing marker for frame %d: %w", i, err)
			}
		}

		data := clearScreen + strings.ReplaceAll(f.Content, "\n", "\r\n")
		if err := enc.Encode([]any{t, "o", data}); err != nil {
			return fmt.Errorf("writing frame %d: %w", i, err)
		}
	}
	return nil
}
