package round

import (
	"context"

	"github.com/mhalloran/golfsync/internal/model"
	"github.com/mhalloran/golfsync/internal/storage"
)

const feedBuffer = 16

// Feed delivers decoded live snapshots of one round document. A nil round
// on the channel means the document was deleted; the consumer decides how
// to react, typically by showing the round as over.
type Feed struct {
	code model.RoundCode
	sub  *storage.Subscription
	ch   chan *model.GroupRound
}

// Updates returns the snapshot channel. It is closed after Cancel.
func (f *Feed) Updates() <-chan *model.GroupRound {
	return f.ch
}

// Cancel unsubscribes the feed. The update channel closes once the
// forwarding goroutine drains.
func (f *Feed) Cancel() {
	f.sub.Cancel()
}

// Listen subscribes to the whole round document and returns a feed of
// decoded snapshots, starting with the current state.
func (m *Manager) Listen(ctx context.Context, code model.RoundCode) (*Feed, error) {
	sub, err := m.roundRef(code).Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	f := &Feed{
		code: code,
		sub:  sub,
		ch:   make(chan *model.GroupRound, feedBuffer),
	}
	go f.forward(m)
	return f, nil
}

func (f *Feed) forward(m *Manager) {
	defer close(f.ch)
	for snap := range f.sub.Updates() {
		var g *model.GroupRound
		if snap.Exists {
			decoded, err := model.DecodeGroupRound(f.code, snap.Value)
			if err != nil {
				m.logger.Warn("skipping corrupt round snapshot", "code", f.code, "error", err)
				continue
			}
			g = decoded
		}
		select {
		case f.ch <- g:
		default:
			m.logger.Warn("round feed consumer too slow, dropping snapshot", "code", f.code)
		}
	}
}
