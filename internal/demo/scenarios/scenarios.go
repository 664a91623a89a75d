// Package scenarios contains built-in demo scenarios for scrollback.
package scenarios

import (
	"time"

	"github.com/zhubert/scrollback/internal/demo"
)

// Conversation shows the everyday loop: open the transcript, write a
// message, watch the reply land at the bottom.
var Conversation = &demo.Scenario{
	Name:        "conversation",
	Description: "Send a message and receive a reply",
	Width:       100,
	Height:      30,
	Steps: []demo.Step{
		demo.Wait(500 * time.Millisecond),
		demo.Annotate("Newest messages load pinned to the bottom"),
		demo.Capture(),

		demo.KeyWithDesc("i", "Focus the composer"),
		demo.TypeWithDesc("Are we still on for the release tomorrow?", "Write a message"),
		demo.Wait(300 * time.Millisecond),

		demo.KeyWithDesc("enter", "Send"),
		demo.Wait(500 * time.Millisecond),
		demo.Annotate("The reply arrives without moving the reader"),
		demo.Wait(1500 * time.Millisecond),

		demo.Incoming("maya", "Yes! I'll cut the tag at 10."),
		demo.Wait(time.Second),
	},
}

// History pages backwards through older messages and returns to the
// bottom.
var History = &demo.Scenario{
	Name:        "history",
	Description: "Scroll to the top to load older history, then jump back",
	Width:       100,
	Height:      30,
	Steps: []demo.Step{
		demo.Wait(500 * time.Millisecond),

		demo.KeyWithDesc("pgup", "Page up"),
		demo.Wait(300 * time.Millisecond),
		demo.KeyWithDesc("pgup", "Page up"),
		demo.Wait(300 * time.Millisecond),

		demo.Annotate("Reaching the top loads the previous page in place"),
		demo.KeyWithDesc("g", "Scroll to the top"),
		demo.Wait(time.Second),
		demo.KeyWithDesc("g", "Keep going"),
		demo.Wait(time.Second),

		demo.Incoming("sam", "New message while you were reading"),
		demo.Annotate("Messages arriving below don't move what you're reading"),
		demo.Wait(500 * time.Millisecond),

		demo.KeyWithDesc("G", "Back to the bottom"),
		demo.Wait(time.Second),
	},
}

// Composer grows the composer over the transcript and collapses it again.
var Composer = &demo.Scenario{
	Name:        "composer",
	Description: "Multi-line drafts keep the newest message in view",
	Width:       90,
	Height:      26,
	Steps: []demo.Step{
		demo.Wait(500 * time.Millisecond),

		demo.Key("i"),
		demo.Type("Notes from today:"),
		demo.Key("shift+enter"),
		demo.Type("- shipped the pager fix"),
		demo.Key("shift+enter"),
		demo.Type("- resize keeps the bottom pinned"),
		demo.Key("shift+enter"),
		demo.Type("- watchdog clears stuck flags"),
		demo.Annotate("The transcript's bottom follows the composer as it grows"),
		demo.Wait(time.Second),

		demo.KeyWithDesc("esc", "Collapse the composer"),
		demo.Wait(500 * time.Millisecond),
		demo.Key("i"),
		demo.KeyWithDesc("enter", "Send the draft"),
		demo.Wait(1500 * time.Millisecond),
	},
}

// Resize changes the terminal size while reading.
var Resize = &demo.Scenario{
	Name:        "resize",
	Description: "Resizing keeps the reader's place",
	Width:       100,
	Height:      30,
	Steps: []demo.Step{
		demo.Wait(500 * time.Millisecond),
		demo.Annotate("Pinned to the bottom"),
		demo.Resize(70, 30),
		demo.Resize(70, 18),
		demo.Wait(500 * time.Millisecond),

		demo.KeyWithDesc("pgup", "Read something older"),
		demo.Wait(300 * time.Millisecond),
		demo.Annotate("The message at the top stays at the top"),
		demo.Resize(110, 34),
		demo.Wait(500 * time.Millisecond),
		demo.Resize(60, 20),
		demo.Wait(500 * time.Millisecond),
	},
}

// All returns all available scenarios.
func All() []*demo.Scenario {
	return []*demo.Scenario{
		Conversation,
		History,
		Composer,
		Resize,
	}
}

// Get returns a scenario by name, or nil if not found.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
