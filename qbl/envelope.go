package qbl

import (
	"encoding/binary"
	"math"
)

// Envelope layout bytes.
const (
	outerTag     = 0x7E
	outerVersion = 0x00
	innerTag     = 0x7F
	innerVersion = 0x01
	trailer      = 0x7B

	headerLen = 12

	// EnvelopeOverhead is the number of bytes the envelope adds around the ciphertext.
	EnvelopeOverhead = headerLen + 1

	// outerLen counts the inner record: its two tag bytes, its u32 length and the trailer.
	innerRecordOverhead = 7
)

// DecodeEnvelope strips the qbl frame and returns a copy of the ciphertext.
//
// The frame is checked in full: minimum length, both record tags, the
// trailer byte and both length fields. Any mismatch is a KindFormat error.
func DecodeEnvelope(qbl []byte) ([]byte, error) {
	if len(qbl) < EnvelopeOverhead {
		return nil, NewError(KindFormat, "QBL-ENV-001", "qbl buffer shorter than envelope")
	}
	if qbl[0] != outerTag || qbl[1] != outerVersion || qbl[6] != innerTag || qbl[7] != innerVersion {
		return nil, NewError(KindFormat, "QBL-ENV-002", "qbl header magic mismatch")
	}
	if qbl[len(qbl)-1] != trailer {
		return nil, NewError(KindFormat, "QBL-ENV-003", "qbl trailer byte mismatch")
	}

	cryptLen := uint64(len(qbl) - EnvelopeOverhead)
	inner := binary.LittleEndian.Uint32(qbl[8:12])
	if uint64(inner) != cryptLen {
		return nil, NewError(KindFormat, "QBL-ENV-004", "qbl inner length does not match payload")
	}
	outer := binary.LittleEndian.Uint32(qbl[2:6])
	if uint64(outer) != uint64(inner)+innerRecordOverhead {
		return nil, NewError(KindFormat, "QBL-ENV-005", "qbl outer length does not match inner length")
	}

	crypt := make([]byte, cryptLen)
	copy(crypt, qbl[headerLen:len(qbl)-1])
	return crypt, nil
}

// EncodeEnvelope wraps crypt in the qbl frame.
func EncodeEnvelope(crypt []byte) ([]byte, error) {
	if uint64(len(crypt))+innerRecordOverhead > math.MaxUint32 {
		return nil, NewError(KindFormat, "QBL-ENV-101", "payload too large for qbl envelope")
	}
	n := uint32(len(crypt))

	qbl := make([]byte, 0, len(crypt)+EnvelopeOverhead)
	qbl = append(qbl, outerTag, outerVersion)
	qbl = binary.LittleEndian.AppendUint32(qbl, n+innerRecordOverhead)
	qbl = append(qbl, innerTag, innerVersion)
	qbl = binary.LittleEndian.AppendUint32(qbl, n)
	qbl = append(qbl, crypt...)
	qbl = append(qbl, trailer)
	return qbl, nil
}
