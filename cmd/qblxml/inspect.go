package main

import (
	"fmt"
	"strings"

	"xdao.co/qblxml/qbl"
)

// inspect decodes a qbl buffer layer by layer and describes each one.
// A length prefix that disagrees with the payload is reported, not rejected.
func inspect(b []byte) (string, error) {
	crypt, err := qbl.DecodeEnvelope(b)
	if err != nil {
		return "", err
	}
	lenxml, err := qbl.Decrypt(crypt)
	if err != nil {
		return "", err
	}
	declared, prefixLen, err := qbl.LengthPrefixValue(lenxml)
	if err != nil {
		return "", err
	}
	xml, err := qbl.DecodeLengthPrefix(lenxml)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "size:            %d\n", len(b))
	fmt.Fprintf(&sb, "outer length:    %d\n", len(crypt)+7)
	fmt.Fprintf(&sb, "inner length:    %d\n", len(crypt))
	fmt.Fprintf(&sb, "cipher blocks:   %d\n", len(crypt)/qbl.BlockSize)
	fmt.Fprintf(&sb, "padding:         %d\n", len(crypt)-len(lenxml))
	fmt.Fprintf(&sb, "length prefix:   %d (%d bytes)\n", declared, prefixLen)
	fmt.Fprintf(&sb, "payload:         %d\n", len(xml))
	if declared == uint64(len(xml)) {
		sb.WriteString("prefix matches:  yes\n")
	} else {
		sb.WriteString("prefix matches:  no\n")
	}
	return sb.String(), nil
}
