package arch

import (
	"fmt"
	"sync/atomic"
)

// Amd64 provides the x86-64 FS/GS base registers.
type Amd64 struct{}

var _ Provider = (*Amd64)(nil)

func NewAmd64() *Amd64 {
	return &Amd64{}
}

func (*Amd64) NewTPState() TPState {
	return &amd64Regs{}
}

// amd64Regs is written by the owning task via arch_prctl and by its parent
// once at clone time; atomics cover the clone/first-run edge.
type amd64Regs struct {
	fsbase atomic.Uint64
	gsbase atomic.Uint64
}

func (r *amd64Regs) SetFsBase(v uint64) {
	r.fsbase.Store(v)
}

func (r *amd64Regs) FsBase() uint64 {
	return r.fsbase.Load()
}

func (r *amd64Regs) SetGsBase(v uint64) {
	r.gsbase.Store(v)
}

func (r *amd64Regs) GsBase() uint64 {
	return r.gsbase.Load()
}

func (r *amd64Regs) String() string {
	return fmt.Sprintf("&{ fs:%#x gs:%#x }", r.FsBase(), r.GsBase())
}
