package broadcast

import (
	"context"

	"risiko-server/internal/game"
)

// Fanout publishes each event to several broadcasters in order
type Fanout []game.Broadcaster

// NewFanout drops nil broadcasters so optional sinks can be passed as is
func NewFanout(broadcasters ...game.Broadcaster) Fanout {
	f := make(Fanout, 0, len(broadcasters))
	for _, b := range broadcasters {
		if b != nil {
			f = append(f, b)
		}
	}
	return f
}

func (f Fanout) Publish(ctx context.Context, event game.Event) {
	for _, b := range f {
		b.Publish(ctx, event)
	}
}
