package session

import "sync/atomic"

// gate admits one operation of a kind at a time. Callers that find it busy drop their request.
type gate struct {
	busy atomic.Bool
}

func (g *gate) enter() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *gate) leave() {
	g.busy.Store(false)
}
