package intent

import "context"

// Completer performs a single-turn chat completion and returns the raw
// model output.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
