package mem

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"taskos/abi"
	db "taskos/debug"
	"taskos/lerr"
)

type page struct {
	data     []byte
	writable bool
}

// PageTable is a page-granular in-memory AddrSpace. Threads created with a
// shared-VM clone alias the same PageTable; a fork gets a deep copy.
type PageTable struct {
	sync.Mutex
	pages map[uint64]*page
	tlb   *lru.Cache[uint64, *page]
}

var _ AddrSpace = (*PageTable)(nil)

func NewPageTable() *PageTable {
	c, err := lru.New[uint64, *page](abi.Conf.Mem.TLB_SIZE)
	if err != nil {
		db.DFatalf("NewPageTable lru err %v", err)
	}
	return &PageTable{
		pages: make(map[uint64]*page),
		tlb:   c,
	}
}

func pageno(va abi.Tvaddr) uint64 {
	return uint64(va) / abi.Conf.Mem.PAGE_SIZE
}

// Map makes [va, va+n) accessible, rounding out to page boundaries.
func (pt *PageTable) Map(va abi.Tvaddr, n int, writable bool) {
	pt.Lock()
	defer pt.Unlock()

	psz := abi.Conf.Mem.PAGE_SIZE
	for pn := pageno(va); pn <= pageno(va+abi.Tvaddr(n-1)); pn++ {
		if _, ok := pt.pages[pn]; !ok {
			pt.pages[pn] = &page{data: make([]byte, psz), writable: writable}
		}
	}
}

func (pt *PageTable) Unmap(va abi.Tvaddr, n int) {
	pt.Lock()
	defer pt.Unlock()

	for pn := pageno(va); pn <= pageno(va+abi.Tvaddr(n-1)); pn++ {
		delete(pt.pages, pn)
		pt.tlb.Remove(pn)
	}
}

func (pt *PageTable) lookup(pn uint64) (*page, bool) {
	if pg, ok := pt.tlb.Get(pn); ok {
		return pg, true
	}
	pg, ok := pt.pages[pn]
	if ok {
		pt.tlb.Add(pn, pg)
	}
	return pg, ok
}

func (pt *PageTable) Translate(va abi.Tvaddr, n int, write bool) ([]byte, *lerr.Err) {
	pt.Lock()
	defer pt.Unlock()

	psz := abi.Conf.Mem.PAGE_SIZE
	off := uint64(va) % psz
	if n <= 0 || off+uint64(n) > psz {
		return nil, lerr.NewErr(lerr.TErrFault, va)
	}
	pg, ok := pt.lookup(pageno(va))
	if !ok {
		return nil, lerr.NewErr(lerr.TErrFault, va)
	}
	if write && !pg.writable {
		return nil, lerr.NewErr(lerr.TErrFault, va)
	}
	return pg.data[off : off+uint64(n)], nil
}

func (pt *PageTable) Fork() AddrSpace {
	pt.Lock()
	defer pt.Unlock()

	npt := NewPageTable()
	for pn, pg := range pt.pages {
		d := make([]byte, len(pg.data))
		copy(d, pg.data)
		npt.pages[pn] = &page{data: d, writable: pg.writable}
	}
	return npt
}
