package sysproc

import (
	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
	"taskos/proc"
)

// Execve replaces the calling task's image. path, argv, and envp are user
// pointers; every string is copied into kernel-owned storage before the
// loader runs, and a fault at any level fails the whole call with the old
// image intact. On success the loader does not return.
func (sys *SysProc) Execve(t *proc.TaskExt, pathVa, argvVa, envpVa abi.Tvaddr) *lerr.Err {
	path, err := t.Mem().ReadString(pathVa)
	if err != nil {
		return err
	}
	argv, err := t.Mem().ReadStrVec(argvVa)
	if err != nil {
		return err
	}
	envp, err := t.Mem().ReadStrVec(envpVa)
	if err != nil {
		return err
	}
	db.DPrintf(db.EXEC, "Execve %v path %v argv %v envp %v", t, path, argv, envp)

	if err := sys.ld.Exec(path, argv, envp); err != nil {
		db.DPrintf(db.EXEC_ERR, "Execve %v path %v err %v", t, path, err)
		return lerr.NewErr(lerr.TErrNosys, path)
	}

	db.DFatalf("Execve %v returned on success", path)
	return nil
}
