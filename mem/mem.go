package mem

//
// UserMem is the one gate through which the syscall layer touches
// user-supplied addresses. Every access is validated against the task's
// address space and fails with TErrFault instead of faulting the kernel.
//

import (
	"encoding/binary"

	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
)

// AddrSpace is the virtual-memory collaborator. Translate returns a
// kernel-addressable window for [va, va+n) if the range is mapped within a
// single page with the required permission.
type AddrSpace interface {
	Translate(va abi.Tvaddr, n int, write bool) ([]byte, *lerr.Err)
	Fork() AddrSpace
}

type UserMem struct {
	as AddrSpace
}

func NewUserMem(as AddrSpace) *UserMem {
	return &UserMem{as: as}
}

func (um *UserMem) AddrSpace() AddrSpace {
	return um.as
}

// read copies n bytes at va, chunking across page boundaries.
func (um *UserMem) read(va abi.Tvaddr, n int) ([]byte, *lerr.Err) {
	b := make([]byte, 0, n)
	for n > 0 {
		c := chunk(va, n)
		w, err := um.as.Translate(va, c, false)
		if err != nil {
			db.DPrintf(db.MEM_ERR, "read va %v n %d err %v", va, n, err)
			return nil, err
		}
		b = append(b, w...)
		va += abi.Tvaddr(c)
		n -= c
	}
	return b, nil
}

func (um *UserMem) write(va abi.Tvaddr, b []byte) *lerr.Err {
	for len(b) > 0 {
		c := chunk(va, len(b))
		w, err := um.as.Translate(va, c, true)
		if err != nil {
			db.DPrintf(db.MEM_ERR, "write va %v n %d err %v", va, len(b), err)
			return err
		}
		copy(w, b[:c])
		va += abi.Tvaddr(c)
		b = b[c:]
	}
	return nil
}

// chunk bounds an access to the end of the page holding va.
func chunk(va abi.Tvaddr, n int) int {
	psz := abi.Conf.Mem.PAGE_SIZE
	left := int(psz - uint64(va)%psz)
	if n < left {
		return n
	}
	return left
}

// ReadBytes copies n raw bytes out of user memory.
func (um *UserMem) ReadBytes(va abi.Tvaddr, n int) ([]byte, *lerr.Err) {
	return um.read(va, n)
}

// WriteBytes copies raw bytes into user memory.
func (um *UserMem) WriteBytes(va abi.Tvaddr, b []byte) *lerr.Err {
	return um.write(va, b)
}

func (um *UserMem) ReadInt32(va abi.Tvaddr) (int32, *lerr.Err) {
	b, err := um.read(va, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (um *UserMem) WriteInt32(va abi.Tvaddr, v int32) *lerr.Err {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return um.write(va, b[:])
}

func (um *UserMem) ReadUint64(va abi.Tvaddr) (uint64, *lerr.Err) {
	b, err := um.read(va, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (um *UserMem) WriteUint64(va abi.Tvaddr, v uint64) *lerr.Err {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return um.write(va, b[:])
}

// ReadString copies a NUL-terminated C string, capped at MAX_STR_LEN.
func (um *UserMem) ReadString(va abi.Tvaddr) (string, *lerr.Err) {
	max := abi.Conf.Mem.MAX_STR_LEN
	s := make([]byte, 0, 64)
	for len(s) < max {
		c := chunk(va, max-len(s))
		w, err := um.as.Translate(va, c, false)
		if err != nil {
			return "", err
		}
		for i := 0; i < c; i++ {
			if w[i] == 0 {
				return string(append(s, w[:i]...)), nil
			}
		}
		s = append(s, w...)
		va += abi.Tvaddr(c)
	}
	return "", lerr.NewErr(lerr.TErrInval, va)
}

// ReadPtrVec copies a NUL-terminated vector of user pointers (argv/envp
// layout), capped at MAX_VEC_LEN entries.
func (um *UserMem) ReadPtrVec(va abi.Tvaddr) ([]abi.Tvaddr, *lerr.Err) {
	max := abi.Conf.Mem.MAX_VEC_LEN
	ps := make([]abi.Tvaddr, 0)
	for len(ps) < max {
		p, err := um.ReadUint64(va)
		if err != nil {
			return nil, err
		}
		if p == 0 {
			return ps, nil
		}
		ps = append(ps, abi.Tvaddr(p))
		va += 8
	}
	return nil, lerr.NewErr(lerr.TErrInval, va)
}

// ReadStrVec copies a NUL-terminated vector of NUL-terminated strings.
func (um *UserMem) ReadStrVec(va abi.Tvaddr) ([]string, *lerr.Err) {
	ps, err := um.ReadPtrVec(va)
	if err != nil {
		return nil, err
	}
	ss := make([]string, 0, len(ps))
	for _, p := range ps {
		s, err := um.ReadString(p)
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
	}
	return ss, nil
}

// ReadRlimit reads the 16-byte rlimit64 layout (soft, then hard).
func (um *UserMem) ReadRlimit(va abi.Tvaddr) (abi.Rlimit, *lerr.Err) {
	b, err := um.read(va, 16)
	if err != nil {
		return abi.Rlimit{}, err
	}
	return abi.Rlimit{
		Cur: binary.LittleEndian.Uint64(b[0:8]),
		Max: binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

func (um *UserMem) WriteRlimit(va abi.Tvaddr, rl abi.Rlimit) *lerr.Err {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], rl.Cur)
	binary.LittleEndian.PutUint64(b[8:16], rl.Max)
	return um.write(va, b[:])
}
