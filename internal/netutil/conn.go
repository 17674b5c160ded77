package netutil

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/armandparker/cachesrv/internal/cache"
	"github.com/armandparker/cachesrv/internal/proto"
)

// ConnOptions bundles the per-connection tunables consumed from
// config (spec §6).
type ConnOptions struct {
	ReadTimeout time.Duration // 0 disables
	IdleTimeout time.Duration // 0 disables
	MaxKeyBytes int
	MaxValBytes int
}

// HandleConnection drives one accepted socket for its lifetime: frame
// → parse → execute → format → write, in strict request order, until
// the stream ends, ctx is cancelled, or an I/O fault occurs (spec
// §4.7). Faults terminate only this connection.
func HandleConnection(ctx context.Context, conn net.Conn, engine *cache.Engine, opts ConnOptions, log zerolog.Logger) {
	defer conn.Close()

	start := time.Now()
	remote := conn.RemoteAddr().String()
	log.Debug().Str("remote", remote).Msg("connection opened")

	var requests, bytesWritten int
	defer func() {
		log.Debug().
			Str("remote", remote).
			Dur("duration", time.Since(start)).
			Int("requests", requests).
			Int("bytes_written", bytesWritten).
			Msg("connection closed")
	}()

	framer := proto.NewFramer(opts.MaxValBytes + 4096)
	parser := proto.NewParser(opts.MaxKeyBytes, opts.MaxValBytes)
	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)
	bufs := newBufPool()

	deadline := opts.ReadTimeout
	if opts.IdleTimeout > 0 && (deadline == 0 || opts.IdleTimeout < deadline) {
		deadline = opts.IdleTimeout
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if deadline > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(deadline))
		}

		record, err := framer.NextRecord(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("connection read fault")
			}
			return
		}

		cmd := parser.Parse(record)
		requests++
		if cmd.Kind == proto.CmdInvalid {
			log.Debug().Str("remote", remote).Int("err_kind", int(cmd.ErrKind)).
				Str("message", cmd.Message).Msg("protocol violation")
		}
		resp := cache.Execute(engine, cmd)

		buf := bufs.get()
		noReply := cmd.Kind == proto.CmdSet || cmd.Kind == proto.CmdDelete
		proto.FormatInto(buf, resp, noReply && cmd.NoReply)

		if buf.Len() > 0 {
			n, err := writer.Write(buf.Bytes())
			bytesWritten += n
			if err != nil {
				bufs.put(buf)
				log.Debug().Err(err).Msg("connection write fault")
				return
			}
			if err := writer.Flush(); err != nil {
				bufs.put(buf)
				log.Debug().Err(err).Msg("connection flush fault")
				return
			}
		}
		bufs.put(buf)
	}
}
