// Package chat defines the controller the transcript loads and sends through,
// and a self-contained demo implementation of it.
package chat

import (
	"context"

	"github.com/zhubert/scrollback/internal/content"
)

// Controller supplies transcript snapshots and accepts outgoing messages.
//
// The load and send methods block and are called from tea.Cmd goroutines;
// implementations must be safe for concurrent use. Each returns the complete
// snapshot the transcript should display afterwards, stamped with a revision
// that orders it against every other snapshot, pushed ones included.
type Controller interface {
	LoadInitialMessages(ctx context.Context) (content.Snapshot, error)
	LoadPreviousMessages(ctx context.Context) (content.Snapshot, error)
	SendMessage(ctx context.Context, text string) (content.Snapshot, error)

	// Updates delivers snapshots caused by something other than the local
	// user, such as a reply arriving. The channel is closed by Close.
	Updates() <-chan content.Snapshot
}
