package sysproc

//
// Task-lifecycle syscalls (clone, exit, wait4, execve, set_tid_address,
// arch_prctl, prlimit64, and the id getters). Every operation takes the
// calling task's extension record explicitly; there is no hidden
// current-task global. User addresses only ever go through the task's
// UserMem.
//

import (
	"taskos/abi"
	"taskos/arch"
	"taskos/fdtable"
	"taskos/futex"
	"taskos/lerr"
	"taskos/loader"
	"taskos/mem"
	"taskos/proc"
	"taskos/rlimit"
	"taskos/sched"
)

type SysProc struct {
	tt *proc.Table
	sd sched.Scheduler
	ld loader.Loader
	fw futex.Waker
	ap arch.Provider // nil on architectures without a thread-pointer base
}

func NewSysProc(tt *proc.Table, sd sched.Scheduler, ld loader.Loader, fw futex.Waker, ap arch.Provider) *SysProc {
	return &SysProc{tt: tt, sd: sd, ld: ld, fw: fw, ap: ap}
}

func (sys *SysProc) Table() *proc.Table {
	return sys.tt
}

// NewInitTask creates the initial process of the system: fresh address
// space, fd table, limits, and signal actions.
func (sys *SysProc) NewInitTask(as mem.AddrSpace) (*proc.TaskExt, *lerr.Err) {
	tid, err := sys.sd.Alloc()
	if err != nil {
		return nil, err
	}
	t := sys.tt.NewTask(tid, abi.Tpid(tid), abi.NoPid)
	t.SetHandles(mem.NewUserMem(as), fdtable.NewMemTable(), rlimit.NewSet(), proc.NewSigActions())
	if sys.ap != nil {
		t.SetRegs(sys.ap.NewTPState())
	}
	return t, nil
}

func (sys *SysProc) Getpid(t *proc.TaskExt) abi.Tpid {
	return t.Pid()
}

func (sys *SysProc) Getppid(t *proc.TaskExt) abi.Tpid {
	return t.Parent()
}

func (sys *SysProc) Gettid(t *proc.TaskExt) abi.Ttid {
	return t.Tid()
}

// SetTidAddress records the caller's clear_child_tid word and returns its
// tid; it always succeeds.
func (sys *SysProc) SetTidAddress(t *proc.TaskExt, va abi.Tvaddr) abi.Ttid {
	t.SetClearChildTid(va)
	return t.Tid()
}
