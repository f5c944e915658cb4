// Package feed decodes a length-framed NASDAQ ITCH 5.0 style stream and
// drives the engine with the resulting commands. Each frame is a 2-byte
// big-endian length followed by a 1-byte message tag and the payload.
//
// The matching engine does not depend on this layout: any decoder producing
// well-formed submit/cancel/modify commands may replace it.
package feed

import (
	"bytes"
	"encoding/binary"
)

// Message tags handled by the replayer. Everything else is skipped via the
// length frame.
const (
	TagSystemEvent    = 'S'
	TagStockDirectory = 'R'
	TagAddOrder       = 'A'
	TagAddOrderMPID   = 'F'
	TagOrderExecuted  = 'E'
	TagOrderExecPrice = 'C'
	TagOrderCancel    = 'X'
	TagOrderDelete    = 'D'
	TagOrderReplace   = 'U'
	TagTrade          = 'P'
)

// Payload sizes (tag byte excluded). Integer fields are big-endian.
const (
	addOrderLen    = 37 // locate u16, tracking u16, ts u64, ref u64, side byte, shares u32, stock [8]byte, price u32
	orderCancelLen = 24 // locate u16, tracking u16, ts u64, ref u64, cancelled u32
	orderDeleteLen = 20 // locate u16, tracking u16, ts u64, ref u64
	orderReplace   = 36 // locate u16, tracking u16, ts u64, orig u64, new u64, shares u32, price u32
)

type addOrder struct {
	timestamp uint64
	orderRef  uint64
	isBuy     bool
	shares    uint32
	stock     string
	price     uint32
}

func parseAddOrder(p []byte) addOrder {
	return addOrder{
		timestamp: binary.BigEndian.Uint64(p[4:12]),
		orderRef:  binary.BigEndian.Uint64(p[12:20]),
		isBuy:     p[20] == 'B',
		shares:    binary.BigEndian.Uint32(p[21:25]),
		stock:     parseSymbol(p[25:33]),
		price:     binary.BigEndian.Uint32(p[33:37]),
	}
}

type orderCancel struct {
	orderRef  uint64
	cancelled uint32
}

func parseOrderCancel(p []byte) orderCancel {
	return orderCancel{
		orderRef:  binary.BigEndian.Uint64(p[12:20]),
		cancelled: binary.BigEndian.Uint32(p[20:24]),
	}
}

func parseOrderDelete(p []byte) uint64 {
	return binary.BigEndian.Uint64(p[12:20])
}

type orderReplaceMsg struct {
	origRef uint64
	newRef  uint64
	shares  uint32
	price   uint32
}

func parseOrderReplace(p []byte) orderReplaceMsg {
	return orderReplaceMsg{
		origRef: binary.BigEndian.Uint64(p[12:20]),
		newRef:  binary.BigEndian.Uint64(p[20:28]),
		shares:  binary.BigEndian.Uint32(p[28:32]),
		price:   binary.BigEndian.Uint32(p[32:36]),
	}
}

// parseSymbol trims the trailing-space padding of an 8-byte stock field.
func parseSymbol(b []byte) string {
	return string(bytes.TrimRight(b, " "))
}
