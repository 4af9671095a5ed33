package lerr

//
// Coded errors for the syscall layer. Each code corresponds 1:1 to the
// errno the dispatcher returns as the negative ABI value; components never
// hand raw errors across the syscall boundary.
//

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

type Terror uint32

const (
	TErrNoError Terror = iota

	// Caller-supplied bad input
	TErrInval
	TErrChild
	TErrMfile
	TErrNomem
	TErrNodev
	TErrNosys
	TErrFault
)

func (err Terror) String() string {
	switch err {
	case TErrNoError:
		return "No error"
	case TErrInval:
		return "Invalid argument"
	case TErrChild:
		return "No child processes"
	case TErrMfile:
		return "Too many open files"
	case TErrNomem:
		return "Out of memory"
	case TErrNodev:
		return "No such device"
	case TErrNosys:
		return "Function not implemented"
	case TErrFault:
		return "Bad user address"
	default:
		return "unknown error"
	}
}

// Errno maps a code to the value the dispatcher encodes on the wire.
func (err Terror) Errno() unix.Errno {
	switch err {
	case TErrInval:
		return unix.EINVAL
	case TErrChild:
		return unix.ECHILD
	case TErrMfile:
		return unix.EMFILE
	case TErrNomem:
		return unix.ENOMEM
	case TErrNodev:
		return unix.ENODEV
	case TErrNosys:
		return unix.ENOSYS
	case TErrFault:
		return unix.EFAULT
	default:
		return unix.EINVAL
	}
}

type Err struct {
	ErrCode Terror
	Obj     string
	Err     error
}

func NewErr(err Terror, obj interface{}) *Err {
	return &Err{err, fmt.Sprintf("%v", obj), nil}
}

func NewErrError(err error) *Err {
	return &Err{TErrInval, "", err}
}

func (err *Err) Code() Terror {
	return err.ErrCode
}

func (err *Err) Errno() unix.Errno {
	return err.ErrCode.Errno()
}

func (err *Err) Unwrap() error { return err.Err }

func (err *Err) Error() string {
	return fmt.Sprintf("%v %v err %v", err.ErrCode, err.Obj, err.Err)
}

func (err *Err) String() string {
	return err.Error()
}

func IsErrCode(error error, code Terror) bool {
	var err *Err
	if errors.As(error, &err) {
		return err.Code() == code
	}
	return false
}
