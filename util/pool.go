package util

import "sync"

// BufPool hands out fixed-size receive buffers so that short-lived
// sessions do not each allocate their own chunk buffer.
type BufPool struct {
	size int
	pool sync.Pool
}

// NewBufPool returns a pool of buffers that are exactly size bytes long.
func NewBufPool(size int) *BufPool {
	p := &BufPool{size: size}
	p.pool.New = func() interface{} {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

// Size reports the length of every buffer in the pool.
func (p *BufPool) Size() int { return p.size }

// Get retrieves a buffer from the pool.  Callers must return it with
// [BufPool.Put] when finished.
func (p *BufPool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool for reuse.  Buffers of the wrong
// size are dropped.
func (p *BufPool) Put(buf *[]byte) {
	if buf == nil || len(*buf) != p.size {
		return
	}
	p.pool.Put(buf)
}
