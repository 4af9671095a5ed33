package abi

//
// Go types for the Linux syscall ABI surface served by taskos. Flag and
// errno values come from golang.org/x/sys/unix so they stay bit-identical
// to the kernel headers.
//

import (
	"fmt"
	"strconv"

	"golang.org/x/sys/unix"
)

type Ttid int32
type Tpid int32
type Tvaddr uint64
type Tflags uint64
type Twaitopt uint32
type Tresource int32
type Texitcode int32

// NoPid marks a task with no parent (the root of the task tree).
const NoPid Tpid = 0

// NoVaddr is the null user address; optional pointer arguments use it.
const NoVaddr Tvaddr = 0

func (t Ttid) String() string {
	return strconv.FormatInt(int64(t), 10)
}

func (p Tpid) String() string {
	return strconv.FormatInt(int64(p), 10)
}

func (va Tvaddr) String() string {
	return "0x" + strconv.FormatUint(uint64(va), 16)
}

func (f Tflags) String() string {
	return "0x" + strconv.FormatUint(uint64(f), 16)
}

// Clone flag bits (unix.CLONE_*). CSIGNAL is the low byte of the flag word
// holding the signal sent to the parent when the child terminates.
const (
	CSIGNAL Tflags = 0xff

	CLONE_VM             = Tflags(unix.CLONE_VM)
	CLONE_FS             = Tflags(unix.CLONE_FS)
	CLONE_FILES          = Tflags(unix.CLONE_FILES)
	CLONE_SIGHAND        = Tflags(unix.CLONE_SIGHAND)
	CLONE_VFORK          = Tflags(unix.CLONE_VFORK)
	CLONE_THREAD         = Tflags(unix.CLONE_THREAD)
	CLONE_SETTLS         = Tflags(unix.CLONE_SETTLS)
	CLONE_PARENT_SETTID  = Tflags(unix.CLONE_PARENT_SETTID)
	CLONE_CHILD_CLEARTID = Tflags(unix.CLONE_CHILD_CLEARTID)
	CLONE_CHILD_SETTID   = Tflags(unix.CLONE_CHILD_SETTID)
)

// CloneSupported is the set of clone flag bits this layer implements.
// Anything outside it fails with EINVAL rather than being ignored.
const CloneSupported = CSIGNAL | CLONE_VM | CLONE_FS | CLONE_FILES |
	CLONE_SIGHAND | CLONE_VFORK | CLONE_THREAD | CLONE_SETTLS |
	CLONE_PARENT_SETTID | CLONE_CHILD_CLEARTID | CLONE_CHILD_SETTID

func (f Tflags) Has(bits Tflags) bool {
	return f&bits == bits
}

// ExitSignal returns the CSIGNAL byte of a clone flag word.
func (f Tflags) ExitSignal() int {
	return int(f & CSIGNAL)
}

const (
	WNOHANG = Twaitopt(unix.WNOHANG)
)

func (o Twaitopt) Has(bits Twaitopt) bool {
	return o&bits == bits
}

const (
	RLIMIT_STACK  = Tresource(unix.RLIMIT_STACK)
	RLIMIT_NOFILE = Tresource(unix.RLIMIT_NOFILE)
	RLIMIT_AS     = Tresource(unix.RLIMIT_AS)
)

// Rlimit is the 16-byte rlimit64 wire layout (soft, hard).
type Rlimit = unix.Rlimit

// arch_prctl codes. Only defined for x86-64; not covered by unix, so the
// values are spelled out from the kernel ABI.
type TarchCode int32

const (
	ARCH_SET_GS    TarchCode = 0x1001
	ARCH_SET_FS    TarchCode = 0x1002
	ARCH_GET_FS    TarchCode = 0x1003
	ARCH_GET_GS    TarchCode = 0x1004
	ARCH_GET_CPUID TarchCode = 0x1011
	ARCH_SET_CPUID TarchCode = 0x1012
)

func (c TarchCode) String() string {
	switch c {
	case ARCH_SET_GS:
		return "SET_GS"
	case ARCH_SET_FS:
		return "SET_FS"
	case ARCH_GET_FS:
		return "GET_FS"
	case ARCH_GET_GS:
		return "GET_GS"
	case ARCH_GET_CPUID:
		return "GET_CPUID"
	case ARCH_SET_CPUID:
		return "SET_CPUID"
	default:
		return fmt.Sprintf("arch_prctl(%#x)", int32(c))
	}
}
