package browser

import (
	"context"
	"time"
)

const (
	// DefaultScrollStep is the distance of one scroll action in CSS pixels.
	DefaultScrollStep = 500

	actionTimeout = 15 * time.Second
	pageTimeout   = 60 * time.Second
)

// Driver is the browser surface the agent acts on. Elements are addressed by
// the numeric ids assigned by the most recent Snapshot.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Snapshot(ctx context.Context) (*PageSnapshot, error)
	Click(ctx context.Context, id int) error
	Type(ctx context.Context, id int, text string, submit bool) error
	Scroll(ctx context.Context, dy int) error
	GoBack(ctx context.Context) error
	Highlight(ctx context.Context, id int)
	CurrentURL(ctx context.Context) (string, error)
	Close() error
}
