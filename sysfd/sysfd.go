package sysfd

//
// Descriptor Relay: thin delegation of dup/dup3/close/fcntl to the fd
// table collaborator, adding per-task fd-limit enforcement. The fd table
// owns descriptor allocation; only the limit policy lives here.
//

import (
	"golang.org/x/sys/unix"

	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
	"taskos/proc"
)

// Dup allocates the lowest free descriptor aliasing fd. A descriptor at
// or above the caller's fd limit is closed again before the call fails,
// so rejection doesn't leak the slot.
func Dup(t *proc.TaskExt, fd int) (int, *lerr.Err) {
	nfd, err := t.FdTable().Dup(fd)
	if err != nil {
		return -1, err
	}
	if nfd >= t.FdLimit() {
		db.DPrintf(db.FDT_ERR, "Dup %v fd %d over limit %d", t, nfd, t.FdLimit())
		if err := t.FdTable().Close(nfd); err != nil {
			db.DFatalf("Dup close fresh fd %d err %v", nfd, err)
		}
		return -1, lerr.NewErr(lerr.TErrMfile, nfd)
	}
	return nfd, nil
}

func Dup3(t *proc.TaskExt, oldfd, newfd int, flags int) (int, *lerr.Err) {
	return t.FdTable().Dup3(oldfd, newfd, abi.Tflags(flags))
}

func Close(t *proc.TaskExt, fd int) *lerr.Err {
	return t.FdTable().Close(fd)
}

// Fcntl passes through, except that descriptor-allocating commands get the
// same limit treatment as Dup.
func Fcntl(t *proc.TaskExt, fd int, cmd int, arg uint64) (int, *lerr.Err) {
	r, err := t.FdTable().Fcntl(fd, cmd, arg)
	if err != nil {
		return -1, err
	}
	if (cmd == unix.F_DUPFD || cmd == unix.F_DUPFD_CLOEXEC) && r >= t.FdLimit() {
		if err := t.FdTable().Close(r); err != nil {
			db.DFatalf("Fcntl close fresh fd %d err %v", r, err)
		}
		return -1, lerr.NewErr(lerr.TErrMfile, r)
	}
	return r, nil
}
