package feed

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/matchgate/matchgate/internal/book"
	"github.com/matchgate/matchgate/internal/engine"
	"github.com/matchgate/matchgate/pkg/metrics"
)

const progressEvery = 1_000_000

// Replayer feeds decoded commands into the engine on the caller's
// goroutine, preserving the single-threaded core contract.
type Replayer struct {
	eng *engine.Engine
	log *zap.Logger
}

// NewReplayer wires a replayer to an engine.
func NewReplayer(eng *engine.Engine, log *zap.Logger) *Replayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Replayer{eng: eng, log: log}
}

// Stats summarizes one replay run.
type Stats struct {
	Messages uint64
	Elapsed  time.Duration
}

// ReplayFile replays a framed feed file. A missing or unreadable file is an
// error; a truncated stream is not — decoding stops at the first malformed
// frame and the consumed count is reported.
func (r *Replayer) ReplayFile(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("feed: open %s: %w", path, err)
	}
	defer f.Close()
	r.log.Info("replaying feed file", zap.String("path", path))
	return r.Replay(bufio.NewReaderSize(f, 1<<20)), nil
}

// Replay consumes frames until EOF or the first malformed frame.
func (r *Replayer) Replay(rd io.Reader) Stats {
	start := time.Now()
	var header [2]byte
	var frame [65536]byte
	var messages uint64

	for {
		if _, err := io.ReadFull(rd, header[:]); err != nil {
			// Clean EOF on a frame boundary; anything else is a
			// truncated stream. Either way the stream is done.
			break
		}
		length := binary.BigEndian.Uint16(header[:])
		if length == 0 {
			r.log.Warn("zero-length frame, stopping replay", zap.Uint64("messages", messages))
			break
		}
		buf := frame[:length]
		if _, err := io.ReadFull(rd, buf); err != nil {
			r.log.Warn("truncated frame, stopping replay", zap.Uint64("messages", messages))
			break
		}

		r.handle(buf[0], buf[1:])
		messages++
		metrics.ReplayMessages.Inc()

		if messages%progressEvery == 0 {
			elapsed := time.Since(start)
			rate := float64(messages) / elapsed.Seconds() / 1e6
			r.log.Info("replay progress",
				zap.Uint64("messages", messages),
				zap.Float64("mmsg_per_sec", rate))
		}
	}

	return Stats{Messages: messages, Elapsed: time.Since(start)}
}

func (r *Replayer) handle(tag byte, payload []byte) {
	switch tag {
	case TagAddOrder:
		if len(payload) < addOrderLen {
			return
		}
		msg := parseAddOrder(payload)
		side := book.Sell
		if msg.isBuy {
			side = book.Buy
		}
		r.eng.SubmitOrder(msg.stock, msg.orderRef, msg.timestamp, msg.price, msg.shares, side, book.Limit)

	case TagOrderCancel:
		if len(payload) < orderCancelLen {
			return
		}
		msg := parseOrderCancel(payload)
		r.eng.ReduceByID(msg.orderRef, msg.cancelled)

	case TagOrderDelete:
		if len(payload) < orderDeleteLen {
			return
		}
		r.eng.CancelByID(parseOrderDelete(payload))

	case TagOrderReplace:
		if len(payload) < orderReplace {
			return
		}
		msg := parseOrderReplace(payload)
		r.eng.ReplaceByID(msg.origRef, msg.newRef, msg.shares, msg.price)

	default:
		// Executions ('E'/'C') are informational, the book is
		// authoritative. Everything else is skipped.
	}
}
