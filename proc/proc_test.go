package proc_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskos/abi"
	"taskos/proc"
)

// exit runs the table half of the exit protocol for te.
func exit(t *testing.T, tt *proc.Table, te *proc.TaskExt, status abi.Texitcode) {
	assert.True(t, tt.Claim(te))
	tt.Exit(te, status)
}

func TestWaitNoChildren(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)

	res := tt.WaitChild(p, -1, true)
	assert.Equal(t, proc.WaitNotExist, res.Wait)
}

func TestWaitNohang(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	tt.NewTask(2, 2, 1)
	tt.AddChild(p, 2)

	res := tt.WaitChild(p, -1, true)
	assert.Equal(t, proc.WaitRunning, res.Wait)
}

func TestExitThenReap(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	c := tt.NewTask(2, 2, 1)
	tt.AddChild(p, 2)

	// only the first claimer owns the termination
	assert.True(t, tt.Claim(c))
	assert.False(t, tt.Claim(c))
	tt.Exit(c, 42)

	res := tt.WaitChild(p, 2, false)
	assert.Equal(t, proc.WaitZombie, res.Wait)
	assert.Equal(t, abi.Tpid(2), res.Pid)
	assert.Equal(t, abi.Texitcode(42), res.Status)

	// reaped: gone from the table and from children
	_, ok := tt.Lookup(2)
	assert.False(t, ok)
	res = tt.WaitChild(p, 2, true)
	assert.Equal(t, proc.WaitNotExist, res.Wait)
}

// A claimed-but-not-exited task keeps its process unreapable.
func TestDyingNotReapable(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	c := tt.NewTask(2, 2, 1)
	tt.AddChild(p, 2)

	assert.True(t, tt.Claim(c))
	res := tt.WaitChild(p, 2, true)
	assert.Equal(t, proc.WaitRunning, res.Wait)

	tt.Exit(c, 1)
	res = tt.WaitChild(p, 2, true)
	assert.Equal(t, proc.WaitZombie, res.Wait)
}

func TestWaitSpecificVsAny(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	c2 := tt.NewTask(2, 2, 1)
	tt.NewTask(3, 3, 1)
	tt.AddChild(p, 2)
	tt.AddChild(p, 3)

	exit(t, tt, c2, 7)

	// pid 3 is still running
	res := tt.WaitChild(p, 3, true)
	assert.Equal(t, proc.WaitRunning, res.Wait)
	// any-child reaps pid 2
	res = tt.WaitChild(p, -1, true)
	assert.Equal(t, proc.WaitZombie, res.Wait)
	assert.Equal(t, abi.Tpid(2), res.Pid)
	assert.Equal(t, 1, tt.NChildren(p))
}

func TestWaitUnknownPid(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	tt.NewTask(2, 2, 1)
	tt.AddChild(p, 2)

	res := tt.WaitChild(p, 99, true)
	assert.Equal(t, proc.WaitNotExist, res.Wait)
}

// A process is reapable only once all of its threads have exited.
func TestProcZombieAllThreads(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	leader := tt.NewTask(2, 2, 1)
	thr := tt.NewTask(3, 2, 1)
	tt.AddChild(p, 2)

	exit(t, tt, leader, 5)
	res := tt.WaitChild(p, 2, true)
	assert.Equal(t, proc.WaitRunning, res.Wait)

	exit(t, tt, thr, 0)
	res = tt.WaitChild(p, 2, true)
	assert.Equal(t, proc.WaitZombie, res.Wait)
	// the process status is the initial thread's
	assert.Equal(t, abi.Texitcode(5), res.Status)
}

// A group status overrides the leader's own exit status at reap time.
func TestGroupStatusOverrides(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	leader := tt.NewTask(2, 2, 1)
	thr := tt.NewTask(3, 2, 1)
	tt.AddChild(p, 2)

	exit(t, tt, leader, 1)
	tt.SetGroupStatus(2, 7)
	exit(t, tt, thr, 7)

	res := tt.WaitChild(p, 2, true)
	assert.Equal(t, proc.WaitZombie, res.Wait)
	assert.Equal(t, abi.Texitcode(7), res.Status)
}

// The blocking path sleeps on the child-exit event instead of polling.
func TestWaitBlocks(t *testing.T) {
	tt := proc.NewTable()
	p := tt.NewTask(1, 1, abi.NoPid)
	c := tt.NewTask(2, 2, 1)
	tt.AddChild(p, 2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res := tt.WaitChild(p, -1, false)
		assert.Equal(t, proc.WaitZombie, res.Wait)
		assert.Equal(t, abi.Texitcode(3), res.Status)
	}()

	time.Sleep(10 * time.Millisecond)
	exit(t, tt, c, 3)
	wg.Wait()
}

// The exit broadcast must reach whichever task of the parent process is
// blocked in wait4, not just the process leader.
func TestWaitBlocksNonLeader(t *testing.T) {
	tt := proc.NewTable()
	tt.NewTask(1, 1, abi.NoPid)
	thr := tt.NewTask(2, 1, abi.NoPid)
	c := tt.NewTask(3, 3, 1)
	tt.AddChild(thr, 3)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res := tt.WaitChild(thr, -1, false)
		assert.Equal(t, proc.WaitZombie, res.Wait)
		assert.Equal(t, abi.Tpid(3), res.Pid)
	}()

	time.Sleep(10 * time.Millisecond)
	exit(t, tt, c, 0)
	wg.Wait()
}
