package rlimit

//
// Per-process resource limits. Threads of a process alias one Set; a fork
// gets a copy. Only the stack limit is consulted anywhere today, but the
// registry is keyed by resource so others can move in.
//

import (
	"fmt"
	"sync"

	"taskos/abi"
)

type Set struct {
	sync.Mutex
	limits map[abi.Tresource]abi.Rlimit
}

func NewSet() *Set {
	s := &Set{limits: make(map[abi.Tresource]abi.Rlimit)}
	stk := abi.Conf.Task.STACK_LIMIT
	s.limits[abi.RLIMIT_STACK] = abi.Rlimit{Cur: stk, Max: stk}
	return s
}

func (s *Set) Get(res abi.Tresource) (abi.Rlimit, bool) {
	s.Lock()
	defer s.Unlock()

	rl, ok := s.limits[res]
	return rl, ok
}

func (s *Set) SetLimit(res abi.Tresource, rl abi.Rlimit) {
	s.Lock()
	defer s.Unlock()

	s.limits[res] = rl
}

// StackSize returns the current soft stack limit.
func (s *Set) StackSize() uint64 {
	rl, _ := s.Get(abi.RLIMIT_STACK)
	return rl.Cur
}

func (s *Set) SetStackSize(sz uint64) {
	s.SetLimit(abi.RLIMIT_STACK, abi.Rlimit{Cur: sz, Max: sz})
}

func (s *Set) Fork() *Set {
	s.Lock()
	defer s.Unlock()

	ns := &Set{limits: make(map[abi.Tresource]abi.Rlimit, len(s.limits))}
	for res, rl := range s.limits {
		ns.limits[res] = rl
	}
	return ns
}

func (s *Set) String() string {
	s.Lock()
	defer s.Unlock()

	return fmt.Sprintf("&{ limits:%v }", s.limits)
}
