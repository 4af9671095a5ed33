package sysproc

import (
	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
	"taskos/proc"
)

// Prlimit64 reads and/or replaces one of the caller's resource limits.
// Only the caller's own process may be named (pid 0 or its pid); there is
// no cross-process limit inspection. The stored soft value is reported as
// both soft and hard. Resources other than the stack limit are accepted
// as no-ops.
func (sys *SysProc) Prlimit64(t *proc.TaskExt, pid abi.Tpid, res abi.Tresource, newVa, oldVa abi.Tvaddr) *lerr.Err {
	if pid != 0 && pid != t.Pid() {
		db.DPrintf(db.RLIMIT_ERR, "Prlimit64 %v pid %v not caller", t, pid)
		return lerr.NewErr(lerr.TErrInval, pid)
	}
	switch res {
	case abi.RLIMIT_STACK:
		if oldVa != abi.NoVaddr {
			sz := t.Limits().StackSize()
			if err := t.Mem().WriteRlimit(oldVa, abi.Rlimit{Cur: sz, Max: sz}); err != nil {
				return err
			}
		}
		if newVa != abi.NoVaddr {
			rl, err := t.Mem().ReadRlimit(newVa)
			if err != nil {
				return err
			}
			t.Limits().SetStackSize(rl.Cur)
			db.DPrintf(db.RLIMIT, "Prlimit64 %v stack %v", t, rl.Cur)
		}
	default:
		// Accepted but not tracked.
		db.DPrintf(db.RLIMIT, "Prlimit64 %v resource %v ignored", t, res)
	}
	return nil
}
