// Package netutil implements the per-connection handler and the
// listener/accept loop that bound and dispatch concurrent clients
// (spec §4.7, §4.8).
package netutil

import (
	"bytes"
	"sync"
)

// bufPool reuses response-formatting buffers across requests, adapted
// from the teacher's BytePool (memory.go) in gofast-server, which
// pooled fixed-size byte slices for its binary framing; here the
// pooled unit is a *bytes.Buffer, and buffers grown past 64 KiB are
// dropped instead of being returned to the pool.
type bufPool struct {
	pool sync.Pool
}

func newBufPool() *bufPool {
	return &bufPool{
		pool: sync.Pool{
			New: func() any {
				return new(bytes.Buffer)
			},
		},
	}
}

func (p *bufPool) get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func (p *bufPool) put(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	p.pool.Put(buf)
}
