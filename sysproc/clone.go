package sysproc

import (
	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
	"taskos/mem"
	"taskos/proc"
)

// Clone constructs a new task that shares or copies the caller's resources
// per the flag bitmask and returns the new task's id to the caller. Flag
// bits outside the supported set fail with EINVAL rather than being
// silently ignored.
func (sys *SysProc) Clone(t *proc.TaskExt, flags abi.Tflags, stack, ptid, tls, ctid abi.Tvaddr) (abi.Ttid, *lerr.Err) {
	if flags&^abi.CloneSupported != 0 {
		db.DPrintf(db.CLONE_ERR, "Clone %v unsupported flags %v", t, flags)
		return 0, lerr.NewErr(lerr.TErrInval, flags)
	}
	// Linux rejects these combinations outright.
	if flags.Has(abi.CLONE_THREAD) && !flags.Has(abi.CLONE_SIGHAND) {
		return 0, lerr.NewErr(lerr.TErrInval, flags)
	}
	if flags.Has(abi.CLONE_SIGHAND) && !flags.Has(abi.CLONE_VM) {
		return 0, lerr.NewErr(lerr.TErrInval, flags)
	}

	tid, err := sys.sd.Alloc()
	if err != nil {
		db.DPrintf(db.CLONE_ERR, "Clone %v alloc err %v", t, err)
		return 0, err
	}

	var pid abi.Tpid
	var parent abi.Tpid
	if flags.Has(abi.CLONE_THREAD) {
		pid = t.Pid()
		parent = t.Parent()
	} else {
		pid = abi.Tpid(tid)
		parent = t.Pid()
	}
	child := sys.tt.NewTask(tid, pid, parent)
	child.SetExitSignal(flags.ExitSignal())
	if flags.Has(abi.CLONE_FILES) {
		child.ShareFdLimit(t)
	} else {
		child.SetFdLimit(t.FdLimit())
	}

	um := t.Mem()
	if !flags.Has(abi.CLONE_VM) {
		um = mem.NewUserMem(t.Mem().AddrSpace().Fork())
	}
	fdt := t.FdTable()
	if !flags.Has(abi.CLONE_FILES) {
		fdt = t.FdTable().Fork()
	}
	lim := t.Limits()
	if !flags.Has(abi.CLONE_THREAD) {
		lim = t.Limits().Fork()
	}
	sigs := t.Sigs()
	if !flags.Has(abi.CLONE_SIGHAND) {
		sigs = t.Sigs().Fork()
	}
	child.SetHandles(um, fdt, lim, sigs)

	if sys.ap != nil {
		regs := sys.ap.NewTPState()
		if r := t.Regs(); r != nil {
			regs.SetFsBase(r.FsBase())
			regs.SetGsBase(r.GsBase())
		}
		if flags.Has(abi.CLONE_SETTLS) {
			regs.SetFsBase(uint64(tls))
		}
		child.SetRegs(regs)
	}

	if flags.Has(abi.CLONE_CHILD_CLEARTID) {
		child.SetClearChildTid(ctid)
	}
	if flags.Has(abi.CLONE_CHILD_SETTID) && ctid != abi.NoVaddr {
		if err := child.Mem().WriteInt32(ctid, int32(tid)); err != nil {
			sys.abortClone(child)
			return 0, err
		}
	}
	if flags.Has(abi.CLONE_PARENT_SETTID) && ptid != abi.NoVaddr {
		if err := t.Mem().WriteInt32(ptid, int32(tid)); err != nil {
			sys.abortClone(child)
			return 0, err
		}
	}

	// Register the child before returning so an immediate wait4 finds it.
	if !flags.Has(abi.CLONE_THREAD) {
		sys.tt.AddChild(t, pid)
	}
	sys.sd.Spawn(tid, stack)
	db.DPrintf(db.CLONE, "Clone %v flags %v -> %v", t, flags, child)
	return tid, nil
}

// abortClone undoes a half-built child whose tid writes faulted; it never
// ran, so only the table entry and scheduler slot exist.
func (sys *SysProc) abortClone(child *proc.TaskExt) {
	sys.tt.Abort(child)
	sys.sd.Exit(child.Tid())
}
