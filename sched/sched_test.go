package sched_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskos/abi"
	"taskos/lerr"
	"taskos/sched"
)

func TestAllocMonotonic(t *testing.T) {
	ls := sched.NewLocalSched()

	var last abi.Ttid
	for i := 0; i < 100; i++ {
		tid, err := ls.Alloc()
		assert.Nil(t, err)
		assert.Greater(t, tid, last)
		last = tid
	}
	assert.Equal(t, 100, ls.NLive())
}

func TestNoReuse(t *testing.T) {
	ls := sched.NewLocalSched()

	tid0, err := ls.Alloc()
	assert.Nil(t, err)
	ls.Exit(tid0)
	tid1, err := ls.Alloc()
	assert.Nil(t, err)
	assert.NotEqual(t, tid0, tid1)
}

func TestExhaustion(t *testing.T) {
	ls := sched.NewLocalSched()

	max := abi.Conf.Task.MAX_TASKS
	for i := 0; i < max; i++ {
		_, err := ls.Alloc()
		assert.Nil(t, err)
	}
	_, err := ls.Alloc()
	assert.True(t, lerr.IsErrCode(err, lerr.TErrNomem))
}
