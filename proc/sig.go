package proc

import (
	"sync"

	"taskos/abi"
)

// SigActions is the signal-disposition table of a process. Signal delivery
// itself lives outside this layer; the table exists so a shared-handlers
// clone aliases one copy and a fork gets its own.
type SigActions struct {
	sync.Mutex
	actions map[int]abi.Tvaddr
}

func NewSigActions() *SigActions {
	return &SigActions{actions: make(map[int]abi.Tvaddr)}
}

func (sa *SigActions) Lookup(sig int) (abi.Tvaddr, bool) {
	sa.Lock()
	defer sa.Unlock()

	h, ok := sa.actions[sig]
	return h, ok
}

func (sa *SigActions) Set(sig int, handler abi.Tvaddr) {
	sa.Lock()
	defer sa.Unlock()

	sa.actions[sig] = handler
}

func (sa *SigActions) Fork() *SigActions {
	sa.Lock()
	defer sa.Unlock()

	nsa := NewSigActions()
	for sig, h := range sa.actions {
		nsa.actions[sig] = h
	}
	return nsa
}
