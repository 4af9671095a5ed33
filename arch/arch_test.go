package arch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskos/arch"
)

func TestTPState(t *testing.T) {
	ap := arch.NewAmd64()
	r := ap.NewTPState()

	assert.Equal(t, uint64(0), r.FsBase())
	r.SetFsBase(0x7000_0000_1000)
	r.SetGsBase(0x7000_0000_2000)
	assert.Equal(t, uint64(0x7000_0000_1000), r.FsBase())
	assert.Equal(t, uint64(0x7000_0000_2000), r.GsBase())

	// shadows are per task
	r2 := ap.NewTPState()
	assert.Equal(t, uint64(0), r2.FsBase())
}
