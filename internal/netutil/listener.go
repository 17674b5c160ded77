package netutil

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/armandparker/cachesrv/internal/cache"
)

// ListenerOptions bundles the accept-loop tunables from config
// (spec §4.8, §6).
type ListenerOptions struct {
	Host                string
	Port                int
	MaxConcurrentConns  int
	ShutdownGracePeriod time.Duration
	ConnOptions         ConnOptions
}

// Listener accepts TCP connections, bounds concurrency with a
// counting semaphore, and spawns a connection handler per accepted
// socket, mirroring the teacher's Start/Stop in server.go generalized
// to add a concurrency bound and graceful, awaited shutdown.
type Listener struct {
	opts   ListenerOptions
	engine *cache.Engine
	log    zerolog.Logger

	ln   net.Listener
	wg   conc.WaitGroup
	slot chan struct{}

	connsMu sync.Mutex
	conns   map[net.Conn]struct{}
}

// NewListener constructs a Listener. Call Run to start accepting.
func NewListener(opts ListenerOptions, engine *cache.Engine, log zerolog.Logger) *Listener {
	return &Listener{
		opts:   opts,
		engine: engine,
		log:    log.With().Str("component", "listener").Logger(),
		slot:   make(chan struct{}, opts.MaxConcurrentConns),
		conns:  make(map[net.Conn]struct{}),
	}
}

// Run binds the listening socket and accepts connections until ctx is
// cancelled. It blocks until shutdown completes (either all handlers
// finish, or the grace period elapses and remaining sockets are
// forced closed).
func (l *Listener) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", l.opts.Host, l.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	l.ln = ln
	l.log.Info().Str("addr", addr).Msg("listening")

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		l.acceptLoop(ctx)
	}()

	<-ctx.Done()
	_ = l.ln.Close()
	<-acceptDone

	waitDone := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(l.opts.ShutdownGracePeriod):
		l.log.Warn().Msg("shutdown grace period elapsed; forcing remaining connections closed")
		l.closeRemaining()
		<-waitDone
	}
	return nil
}

// closeRemaining forcibly closes every connection still tracked as
// in-flight, unblocking their handlers' pending reads so wg.Wait can
// complete (spec §4.8's grace-period force-close).
func (l *Listener) closeRemaining() {
	l.connsMu.Lock()
	defer l.connsMu.Unlock()
	for c := range l.conns {
		_ = c.Close()
	}
}

func (l *Listener) acceptLoop(ctx context.Context) {
	for {
		select {
		case l.slot <- struct{}{}:
		case <-ctx.Done():
			return
		}

		conn, err := l.ln.Accept()
		if err != nil {
			<-l.slot
			if ctx.Err() != nil {
				return
			}
			l.log.Error().Err(err).Msg("accept error")
			continue
		}

		l.connsMu.Lock()
		l.conns[conn] = struct{}{}
		l.connsMu.Unlock()

		l.wg.Go(func() {
			defer func() {
				l.connsMu.Lock()
				delete(l.conns, conn)
				l.connsMu.Unlock()
				if r := recover(); r != nil {
					l.log.Error().Interface("panic", r).Msg("connection handler panicked")
				}
				<-l.slot
			}()
			HandleConnection(ctx, conn, l.engine, l.opts.ConnOptions, l.log)
		})
	}
}
