package sysproc

import (
	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
	"taskos/proc"
)

// ArchPrctl gets/sets the caller's thread-pointer base registers. It is
// only reachable on configurations with an arch capability; elsewhere the
// dispatcher has no arch_prctl entry and this reports ENOSYS.
func (sys *SysProc) ArchPrctl(t *proc.TaskExt, code abi.TarchCode, addr abi.Tvaddr) (int64, *lerr.Err) {
	if sys.ap == nil || t.Regs() == nil {
		return 0, lerr.NewErr(lerr.TErrNosys, code)
	}
	db.DPrintf(db.ARCH, "ArchPrctl %v code %v addr %v", t, code, addr)
	switch code {
	case abi.ARCH_SET_FS:
		// Linux applies the base without validation.
		t.Regs().SetFsBase(uint64(addr))
		return 0, nil
	case abi.ARCH_SET_GS:
		t.Regs().SetGsBase(uint64(addr))
		return 0, nil
	case abi.ARCH_GET_FS:
		return 0, t.Mem().WriteUint64(addr, t.Regs().FsBase())
	case abi.ARCH_GET_GS:
		return 0, t.Mem().WriteUint64(addr, t.Regs().GsBase())
	case abi.ARCH_GET_CPUID:
		// cpuid faulting is never armed, so the query reports enabled.
		return 1, nil
	case abi.ARCH_SET_CPUID:
		return 0, lerr.NewErr(lerr.TErrNodev, code)
	default:
		db.DPrintf(db.ARCH_ERR, "ArchPrctl %v unknown code %v", t, code)
		return 0, lerr.NewErr(lerr.TErrInval, code)
	}
}
