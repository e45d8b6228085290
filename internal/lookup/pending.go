package lookup

import (
	"context"

	"github.com/couchcryptid/weather-now/internal/domain"
)

// Pending is one submitted lookup. Each submission gets its own context and
// generation; a newer submission invalidates an older one.
type Pending struct {
	id     string
	gen    uint64
	query  string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	state domain.State
	err   error
}

// ID is the lookup's unique identifier, as used in logs and published events.
func (p *Pending) ID() string { return p.id }

// Query is the trimmed query being looked up.
func (p *Pending) Query() string { return p.query }

// Done is closed when the lookup has finished or been discarded.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Result returns the final state and ErrSuperseded if the result was
// discarded. It must be called after Done is closed.
func (p *Pending) Result() (domain.State, error) {
	return p.state, p.err
}

// Wait blocks until the lookup finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) (domain.State, error) {
	select {
	case <-p.done:
		return p.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pending) finish(st domain.State, err error) {
	p.state = st
	p.err = err
}
