package qbl

import "encoding/binary"

// Length-prefix layer: an unsigned LEB128 length followed by the payload.
//
// Decoding only looks for the terminating byte (top bit clear). The encoded
// value is not compared with the payload length; existing producers may rely
// on that leniency, so DecodeLengthPrefix must stay scan-only.

const continuationBit = 0x80

// DecodeLengthPrefix returns a copy of the bytes following the length prefix.
func DecodeLengthPrefix(lenxml []byte) ([]byte, error) {
	i := 0
	for i < len(lenxml) && lenxml[i]&continuationBit != 0 {
		i++
	}
	if i == len(lenxml) {
		return nil, NewError(KindFormat, "QBL-LEN-001", "length prefix is not terminated")
	}
	xml := make([]byte, len(lenxml)-i-1)
	copy(xml, lenxml[i+1:])
	return xml, nil
}

// EncodeLengthPrefix prepends the LEB128 encoding of len(xml) to xml.
func EncodeLengthPrefix(xml []byte) []byte {
	out := make([]byte, 0, len(xml)+binary.MaxVarintLen64)
	out = binary.AppendUvarint(out, uint64(len(xml)))
	return append(out, xml...)
}

// LengthPrefixValue decodes the length prefix as an integer and returns the
// value and the number of prefix bytes. It is a diagnostic helper; the
// conversion path never consults the value.
func LengthPrefixValue(lenxml []byte) (uint64, int, error) {
	n, size := binary.Uvarint(lenxml)
	switch {
	case size == 0:
		return 0, 0, NewError(KindFormat, "QBL-LEN-001", "length prefix is not terminated")
	case size < 0:
		return 0, 0, NewError(KindFormat, "QBL-LEN-002", "length prefix overflows 64 bits")
	}
	return n, size, nil
}
