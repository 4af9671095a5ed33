package fdtable

//
// Descriptor-table collaborator of the task layer. The relay in sysfd adds
// per-task fd-limit policy; the table itself only hands out and retires
// descriptors.
//

import (
	"taskos/abi"
	"taskos/lerr"
)

// Tobj is whatever the VFS puts behind a descriptor; the task layer never
// looks inside it.
type Tobj interface{}

type FdTable interface {
	// Open installs obj at the lowest free descriptor.
	Open(obj Tobj) int
	// Dup aliases oldfd at the lowest free descriptor.
	Dup(oldfd int) (int, *lerr.Err)
	// Dup3 aliases oldfd at newfd, closing newfd first if in use.
	Dup3(oldfd, newfd int, flags abi.Tflags) (int, *lerr.Err)
	Close(fd int) *lerr.Err
	Fcntl(fd int, cmd int, arg uint64) (int, *lerr.Err)
	// Lookup returns the object behind fd.
	Lookup(fd int) (Tobj, *lerr.Err)
	// Fork returns a copy for a child that doesn't share the table.
	Fork() FdTable
}
