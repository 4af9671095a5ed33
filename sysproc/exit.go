package sysproc

import (
	"taskos/abi"
	db "taskos/debug"
	"taskos/proc"
)

// Exit terminates the calling task. If the task registered a
// clear_child_tid word, the 4 bytes there are zeroed and futex waiters on
// that word are woken, which is how user-space join observes the death.
// The dispatcher never returns to user code after this.
func (sys *SysProc) Exit(t *proc.TaskExt, status abi.Texitcode) {
	sys.exitTask(t, status)
}

// ExitGroup terminates every task sharing the caller's process, siblings
// first, then the caller. Each sibling's clear-tid protocol runs as if it
// had exited itself, and the group status is what the reaper sees even if
// the leader exited earlier with a different one.
func (sys *SysProc) ExitGroup(t *proc.TaskExt, status abi.Texitcode) {
	sys.tt.SetGroupStatus(t.Pid(), status)
	for _, sib := range sys.tt.LiveProcTasks(t.Pid(), t) {
		sys.exitTask(sib, status)
	}
	sys.exitTask(t, status)
}

func (sys *SysProc) exitTask(t *proc.TaskExt, status abi.Texitcode) {
	if !sys.tt.Claim(t) {
		// Someone else (an exit_group sibling or a racing self-exit)
		// owns t's termination; the protocol must not run twice.
		return
	}
	if va := t.ClearChildTid(); va != abi.NoVaddr {
		// A fault here must not stop the exit; the address may have been
		// unmapped by the time the task dies.
		if err := t.Mem().WriteInt32(va, 0); err != nil {
			db.DPrintf(db.EXIT_ERR, "exitTask %v clear tid %v err %v", t, va, err)
		} else {
			n := sys.fw.Wake(va, 1)
			db.DPrintf(db.FUTEX, "exitTask %v wake %v n %d", t, va, n)
		}
	}
	sys.tt.Exit(t, status)
	sys.sd.Exit(t.Tid())
}
