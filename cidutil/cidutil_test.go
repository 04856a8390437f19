package cidutil

import (
	"strings"
	"testing"

	"github.com/ipfs/go-cid"
)

func TestCID_StableAndDecodable(t *testing.T) {
	data := []byte("<a/>")
	a := String(data)
	b := String(data)
	if a == "" || a != b {
		t.Fatalf("CID not stable: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "bafkrei") {
		t.Fatalf("expected raw CIDv1 base32 prefix, got %s", a)
	}
	id, err := cid.Decode(a)
	if err != nil {
		t.Fatalf("cid.Decode: %v", err)
	}
	if id.Type() != cid.Raw || id.Version() != 1 {
		t.Fatalf("unexpected cid type/version: %d/%d", id.Type(), id.Version())
	}
	if String([]byte("<b/>")) == a {
		t.Fatalf("distinct inputs share a CID")
	}
}

func TestSHA3Hex_Empty(t *testing.T) {
	const want = "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a"
	if got := SHA3Hex(nil); got != want {
		t.Fatalf("SHA3Hex(nil)=%s want %s", got, want)
	}
}
