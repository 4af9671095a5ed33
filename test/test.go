package test

//
// Tstate assembles the task layer against local collaborators: a
// goroutine-backed scheduler, page-table address spaces, the in-memory fd
// table, a recording futex waker, and a recording loader. Tests drive the
// syscall surface exactly the way the dispatcher would.
//

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskos/abi"
	"taskos/arch"
	"taskos/futex"
	"taskos/lerr"
	"taskos/mem"
	"taskos/proc"
	"taskos/sched"
	"taskos/sysproc"
)

type Tstate struct {
	T     *testing.T
	Sys   *sysproc.SysProc
	Sched *sched.LocalSched
	Waker *WakeRecorder
	Ld    *LoaderRecorder
	Init  *proc.TaskExt
}

func NewTstate(t *testing.T) *Tstate {
	return newTstate(t, arch.NewAmd64())
}

// NewTstateNoArch builds a configuration without a thread-pointer
// capability, as a non-x86 port would.
func NewTstateNoArch(t *testing.T) *Tstate {
	return newTstate(t, nil)
}

func newTstate(t *testing.T, ap arch.Provider) *Tstate {
	ts := &Tstate{T: t}
	ts.Sched = sched.NewLocalSched()
	ts.Waker = &WakeRecorder{}
	ts.Ld = NewLoaderRecorder()
	ts.Sys = sysproc.NewSysProc(proc.NewTable(), ts.Sched, ts.Ld, ts.Waker, ap)
	init, err := ts.Sys.NewInitTask(mem.NewPageTable())
	assert.Nil(t, err, "NewInitTask: %v", err)
	ts.Init = init
	return ts
}

// Map makes [va, va+n) writable in tsk's address space.
func (ts *Tstate) Map(tsk *proc.TaskExt, va abi.Tvaddr, n int) {
	ts.PageTable(tsk).Map(va, n, true)
}

func (ts *Tstate) PageTable(tsk *proc.TaskExt) *mem.PageTable {
	return tsk.Mem().AddrSpace().(*mem.PageTable)
}

// Child looks up the extension record of a clone result.
func (ts *Tstate) Child(tid abi.Ttid) *proc.TaskExt {
	te, ok := ts.Sys.Table().Lookup(tid)
	assert.True(ts.T, ok, "no task %v", tid)
	return te
}

// WakeRecorder stands in for the futex collaborator and records wakes.
type WakeRecorder struct {
	sync.Mutex
	wakes []abi.Tvaddr
}

func (wr *WakeRecorder) Wake(va abi.Tvaddr, n int) int {
	wr.Lock()
	defer wr.Unlock()

	wr.wakes = append(wr.wakes, va)
	return 0
}

func (wr *WakeRecorder) Wakes() []abi.Tvaddr {
	wr.Lock()
	defer wr.Unlock()

	return append([]abi.Tvaddr{}, wr.wakes...)
}

var _ futex.Waker = (*WakeRecorder)(nil)

// LoaderRecorder stands in for the image loader; it records the marshaled
// image and fails the exec, since tests keep running in the old image.
type LoaderRecorder struct {
	sync.Mutex
	Path string
	Argv []string
	Envp []string
	err  error
}

func NewLoaderRecorder() *LoaderRecorder {
	return &LoaderRecorder{err: lerr.NewErr(lerr.TErrNosys, "no boot image")}
}

func (lr *LoaderRecorder) Exec(path string, argv, envp []string) error {
	lr.Lock()
	defer lr.Unlock()

	lr.Path = path
	lr.Argv = argv
	lr.Envp = envp
	return lr.err
}
