package sysproc

import (
	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
	"taskos/proc"
)

// Wait4 reaps one terminated child. pid <= 0 waits for any child, a
// positive pid for that child. With WNOHANG it reports 0 instead of
// blocking; otherwise the caller sleeps on the child-exit event and
// re-evaluates when woken, so a concurrently exiting child is never
// missed and never busy-polled for.
func (sys *SysProc) Wait4(t *proc.TaskExt, pid abi.Tpid, statusVa abi.Tvaddr, opts abi.Twaitopt) (abi.Tpid, *lerr.Err) {
	if opts&^abi.WNOHANG != 0 {
		return 0, lerr.NewErr(lerr.TErrInval, opts)
	}
	db.DPrintf(db.WAIT, "Wait4 %v pid %v status %v opts %#x", t, pid, statusVa, uint32(opts))

	res := sys.tt.WaitChild(t, pid, opts.Has(abi.WNOHANG))
	switch res.Wait {
	case proc.WaitNotExist:
		db.DPrintf(db.WAIT_ERR, "Wait4 %v pid %v no such child", t, pid)
		return 0, lerr.NewErr(lerr.TErrChild, pid)
	case proc.WaitRunning:
		// WNOHANG and nothing to reap yet.
		return 0, nil
	case proc.WaitZombie:
		if statusVa != abi.NoVaddr {
			if err := t.Mem().WriteInt32(statusVa, int32(res.Status)); err != nil {
				return 0, err
			}
		}
		return res.Pid, nil
	default:
		db.DFatalf("Wait4 %v bad wait status %v", t, res)
		return 0, nil
	}
}
