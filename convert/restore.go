package convert

import (
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/qblxml/internal/fsutil"
	"xdao.co/qblxml/qbl"
	"xdao.co/qblxml/storage"
)

// Restore writes the archived bytes of path back to dest, or over path itself
// when dest is empty. path may be either the input or the output of a recorded
// conversion; the latest conversion wins. It returns the restored object's CID.
func Restore(a storage.Archive, path, dest string) (cid.Cid, error) {
	e, err := a.Lookup(path)
	if err != nil {
		return cid.Undef, qbl.WrapError(qbl.KindIO, "QBL-IO-004", "no archived conversion for "+path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return cid.Undef, qbl.WrapError(qbl.KindIO, "QBL-IO-004", "no archived conversion for "+path, err)
	}
	id, _, _ := e.Side(abs)
	b, err := a.Object(id)
	if err != nil {
		return cid.Undef, qbl.WrapError(qbl.KindIO, "QBL-IO-004", "could not read archived object "+id.String(), err)
	}

	if dest == "" {
		dest = path
	}
	if err := fsutil.WriteFileAtomic(dest, b, 0o644); err != nil {
		return cid.Undef, qbl.WrapError(qbl.KindIO, "QBL-IO-002", "could not write output file "+dest, err)
	}
	return id, nil
}
