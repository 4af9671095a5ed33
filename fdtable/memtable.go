package fdtable

import (
	"sync"

	"golang.org/x/sys/unix"

	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
)

type fdState struct {
	obj     Tobj
	cloexec bool
}

// MemTable is an in-memory FdTable with lowest-free allocation. Threads of
// a shared-files clone alias one MemTable.
type MemTable struct {
	sync.Mutex
	fds     []fdState
	freefds map[int]bool
}

var _ FdTable = (*MemTable)(nil)

func NewMemTable() *MemTable {
	fdt := &MemTable{}
	fdt.fds = make([]fdState, 0)
	fdt.freefds = make(map[int]bool)
	return fdt
}

// Caller must hold fdt lock.
func (fdt *MemTable) allocL(obj Tobj, cloexec bool, min int) int {
	if len(fdt.freefds) > 0 {
		best := -1
		for i := range fdt.freefds {
			if i >= min && (best == -1 || i < best) {
				best = i
			}
		}
		if best != -1 {
			delete(fdt.freefds, best)
			fdt.fds[best] = fdState{obj, cloexec}
			return best
		}
	}
	for len(fdt.fds) < min {
		fdt.freefds[len(fdt.fds)] = true
		fdt.fds = append(fdt.fds, fdState{})
	}
	fdt.fds = append(fdt.fds, fdState{obj, cloexec})
	return len(fdt.fds) - 1
}

// Caller must hold fdt lock.
func (fdt *MemTable) lookupL(fd int) (*fdState, *lerr.Err) {
	if fd < 0 || fd >= len(fdt.fds) || fdt.freefds[fd] || fdt.fds[fd].obj == nil {
		return nil, lerr.NewErr(lerr.TErrInval, fd)
	}
	return &fdt.fds[fd], nil
}

func (fdt *MemTable) Open(obj Tobj) int {
	fdt.Lock()
	defer fdt.Unlock()

	return fdt.allocL(obj, false, 0)
}

func (fdt *MemTable) Dup(oldfd int) (int, *lerr.Err) {
	fdt.Lock()
	defer fdt.Unlock()

	st, err := fdt.lookupL(oldfd)
	if err != nil {
		return -1, err
	}
	// dup clears FD_CLOEXEC on the copy
	return fdt.allocL(st.obj, false, 0), nil
}

func (fdt *MemTable) Dup3(oldfd, newfd int, flags abi.Tflags) (int, *lerr.Err) {
	fdt.Lock()
	defer fdt.Unlock()

	st, err := fdt.lookupL(oldfd)
	if err != nil {
		return -1, err
	}
	if oldfd == newfd || newfd < 0 {
		return -1, lerr.NewErr(lerr.TErrInval, newfd)
	}
	obj := st.obj
	if newfd < len(fdt.fds) {
		fdt.fds[newfd] = fdState{obj, flags != 0}
		delete(fdt.freefds, newfd)
	} else {
		fd := fdt.allocL(obj, flags != 0, newfd)
		if fd != newfd {
			db.DFatalf("Dup3 alloc fd %v != newfd %v", fd, newfd)
		}
	}
	return newfd, nil
}

func (fdt *MemTable) Close(fd int) *lerr.Err {
	fdt.Lock()
	defer fdt.Unlock()

	if _, err := fdt.lookupL(fd); err != nil {
		return err
	}
	fdt.fds[fd] = fdState{}
	fdt.freefds[fd] = true
	return nil
}

func (fdt *MemTable) Fcntl(fd int, cmd int, arg uint64) (int, *lerr.Err) {
	fdt.Lock()
	defer fdt.Unlock()

	st, err := fdt.lookupL(fd)
	if err != nil {
		return -1, err
	}
	switch cmd {
	case unix.F_DUPFD:
		return fdt.allocL(st.obj, false, int(arg)), nil
	case unix.F_DUPFD_CLOEXEC:
		return fdt.allocL(st.obj, true, int(arg)), nil
	case unix.F_GETFD:
		if st.cloexec {
			return unix.FD_CLOEXEC, nil
		}
		return 0, nil
	case unix.F_SETFD:
		st.cloexec = arg&unix.FD_CLOEXEC != 0
		return 0, nil
	case unix.F_GETFL:
		return 0, nil
	default:
		return -1, lerr.NewErr(lerr.TErrInval, cmd)
	}
}

func (fdt *MemTable) Lookup(fd int) (Tobj, *lerr.Err) {
	fdt.Lock()
	defer fdt.Unlock()

	st, err := fdt.lookupL(fd)
	if err != nil {
		return nil, err
	}
	return st.obj, nil
}

func (fdt *MemTable) Fork() FdTable {
	fdt.Lock()
	defer fdt.Unlock()

	nfdt := NewMemTable()
	nfdt.fds = make([]fdState, len(fdt.fds))
	copy(nfdt.fds, fdt.fds)
	for fd := range fdt.freefds {
		nfdt.freefds[fd] = true
	}
	return nfdt
}
