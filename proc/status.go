package proc

import (
	"fmt"

	"taskos/abi"
)

type Tstate uint8

const (
	StateRunnable Tstate = iota + 1
	StateDying
	StateZombie
	StateReaped
)

func (st Tstate) String() string {
	switch st {
	case StateRunnable:
		return "RUNNABLE"
	case StateDying:
		return "DYING"
	case StateZombie:
		return "ZOMBIE"
	case StateReaped:
		return "REAPED"
	default:
		return "unknown state"
	}
}

// Twait is the answer to a wait4 query against a process id and the
// caller's recorded children.
type Twait uint8

const (
	WaitRunning Twait = iota + 1
	WaitZombie
	WaitNotExist
)

func (w Twait) String() string {
	switch w {
	case WaitRunning:
		return "RUNNING"
	case WaitZombie:
		return "ZOMBIE"
	case WaitNotExist:
		return "NOTEXIST"
	default:
		return "unknown wait status"
	}
}

// WaitResult carries one reaped child out of the table.
type WaitResult struct {
	Pid    abi.Tpid
	Status abi.Texitcode
	Wait   Twait
}

func (wr WaitResult) String() string {
	return fmt.Sprintf("&{ pid:%v status:%v wait:%v }", wr.Pid, wr.Status, wr.Wait)
}
