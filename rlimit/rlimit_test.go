package rlimit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskos/abi"
	"taskos/rlimit"
)

func TestDefaults(t *testing.T) {
	s := rlimit.NewSet()
	assert.Equal(t, abi.Conf.Task.STACK_LIMIT, s.StackSize())
}

func TestSetStackSize(t *testing.T) {
	s := rlimit.NewSet()
	s.SetStackSize(1 << 20)
	assert.Equal(t, uint64(1<<20), s.StackSize())
	rl, ok := s.Get(abi.RLIMIT_STACK)
	assert.True(t, ok)
	assert.Equal(t, rl.Cur, rl.Max)
}

func TestForkIsCopy(t *testing.T) {
	s := rlimit.NewSet()
	c := s.Fork()
	c.SetStackSize(1 << 16)
	assert.Equal(t, abi.Conf.Task.STACK_LIMIT, s.StackSize())
	assert.Equal(t, uint64(1<<16), c.StackSize())
}
