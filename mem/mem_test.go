package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskos/abi"
	"taskos/lerr"
	"taskos/mem"
)

func TestReadWriteInt32(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	err := um.WriteInt32(0x1000, -17)
	assert.Nil(t, err)
	v, err := um.ReadInt32(0x1000)
	assert.Nil(t, err)
	assert.Equal(t, int32(-17), v)
}

func TestFaultUnmapped(t *testing.T) {
	um := mem.NewUserMem(mem.NewPageTable())

	_, err := um.ReadInt32(0x1000)
	assert.NotNil(t, err)
	assert.True(t, lerr.IsErrCode(err, lerr.TErrFault))
}

func TestFaultReadOnly(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, false)

	_, err := um.ReadUint64(0x1000)
	assert.Nil(t, err)
	werr := um.WriteUint64(0x1000, 1)
	assert.True(t, lerr.IsErrCode(werr, lerr.TErrFault))
}

func TestCrossPage(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 2*4096, true)

	// straddles the 0x2000 page boundary
	va := abi.Tvaddr(0x1ffe)
	err := um.WriteUint64(va, 0xdeadbeefcafef00d)
	assert.Nil(t, err)
	v, err := um.ReadUint64(va)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0xdeadbeefcafef00d), v)
}

func TestReadString(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	err := um.WriteBytes(0x1000, []byte("hello\x00"))
	assert.Nil(t, err)
	s, err := um.ReadString(0x1000)
	assert.Nil(t, err)
	assert.Equal(t, "hello", s)
}

func TestReadStringUnterminated(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	// page full of 'a' and nothing mapped after it
	b := make([]byte, 4096)
	for i := range b {
		b[i] = 'a'
	}
	assert.Nil(t, um.WriteBytes(0x1000, b))
	_, err := um.ReadString(0x1000)
	assert.NotNil(t, err)
	assert.True(t, lerr.IsErrCode(err, lerr.TErrInval))
}

func TestReadStrVec(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	assert.Nil(t, um.WriteBytes(0x1000, []byte("one\x00")))
	assert.Nil(t, um.WriteBytes(0x1010, []byte("two\x00")))
	assert.Nil(t, um.WriteUint64(0x1100, 0x1000))
	assert.Nil(t, um.WriteUint64(0x1108, 0x1010))
	assert.Nil(t, um.WriteUint64(0x1110, 0))

	ss, err := um.ReadStrVec(0x1100)
	assert.Nil(t, err)
	assert.Equal(t, []string{"one", "two"}, ss)
}

func TestReadStrVecBadElem(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	assert.Nil(t, um.WriteUint64(0x1100, 0x900000)) // unmapped string
	assert.Nil(t, um.WriteUint64(0x1108, 0))

	_, err := um.ReadStrVec(0x1100)
	assert.True(t, lerr.IsErrCode(err, lerr.TErrFault))
}

func TestRlimitRoundTrip(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	rl := abi.Rlimit{Cur: 1 << 20, Max: 1 << 23}
	assert.Nil(t, um.WriteRlimit(0x1000, rl))
	got, err := um.ReadRlimit(0x1000)
	assert.Nil(t, err)
	assert.Equal(t, rl, got)
}

func TestUnmapInvalidatesCache(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)

	assert.Nil(t, um.WriteInt32(0x1000, 7))
	pt.Unmap(0x1000, 4096)
	_, err := um.ReadInt32(0x1000)
	assert.True(t, lerr.IsErrCode(err, lerr.TErrFault))
}

func TestForkIsCopy(t *testing.T) {
	pt := mem.NewPageTable()
	um := mem.NewUserMem(pt)
	pt.Map(0x1000, 4096, true)
	assert.Nil(t, um.WriteInt32(0x1000, 1))

	um2 := mem.NewUserMem(pt.Fork())
	assert.Nil(t, um2.WriteInt32(0x1000, 2))

	v1, err := um.ReadInt32(0x1000)
	assert.Nil(t, err)
	v2, err := um2.ReadInt32(0x1000)
	assert.Nil(t, err)
	assert.Equal(t, int32(1), v1)
	assert.Equal(t, int32(2), v2)
}
