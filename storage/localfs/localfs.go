// Package localfs keeps the conversion archive in a directory:
//
//	<root>/objects/<xy>/<cid>          converted bytes, never rewritten (xy: last two cid characters)
//	<root>/by-path/<sha3(path)>.json   latest conversion that read or wrote path
package localfs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/qblxml/cidutil"
	"xdao.co/qblxml/internal/fsutil"
	"xdao.co/qblxml/qbl"
	"xdao.co/qblxml/storage"
)

const (
	objectsDir = "objects"
	indexDir   = "by-path"
)

// Archive is a directory-backed storage.Archive.
type Archive struct {
	root string
}

var _ storage.Archive = (*Archive)(nil)

// New opens the archive at root, creating its directories if needed.
func New(root string) (*Archive, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	for _, dir := range []string{objectsDir, indexDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, err
		}
	}
	return &Archive{root: root}, nil
}

// indexRecord is the on-disk form of a storage.Entry.
type indexRecord struct {
	Input     string `json:"input"`
	Output    string `json:"output"`
	From      string `json:"from"`
	InputCID  string `json:"input_cid"`
	OutputCID string `json:"output_cid"`
}

// Record archives one conversion of input (of type from) that produced out.
// The qbl side of the pair must carry a well-formed envelope.
func (a *Archive) Record(input string, from qbl.FileType, in, out []byte) (storage.Entry, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return storage.Entry{}, err
	}
	output, t, err := qbl.OutputPath(abs)
	if err != nil {
		return storage.Entry{}, fmt.Errorf("%w: %w", storage.ErrInvalidEntry, err)
	}
	if t != from {
		return storage.Entry{}, fmt.Errorf("%w: %s is not a %s file", storage.ErrInvalidEntry, input, from)
	}
	qblSide := in
	if from == qbl.FileTypeXML {
		qblSide = out
	}
	if _, err := qbl.DecodeEnvelope(qblSide); err != nil {
		return storage.Entry{}, fmt.Errorf("%w: %w", storage.ErrInvalidEntry, err)
	}

	e := storage.Entry{Input: abs, Output: output, From: from}
	if e.InputCID, err = a.put(in); err != nil {
		return storage.Entry{}, err
	}
	if e.OutputCID, err = a.put(out); err != nil {
		return storage.Entry{}, err
	}

	rec, err := json.MarshalIndent(indexRecord{
		Input:     e.Input,
		Output:    e.Output,
		From:      e.From.Extension(),
		InputCID:  e.InputCID.String(),
		OutputCID: e.OutputCID.String(),
	}, "", "  ")
	if err != nil {
		return storage.Entry{}, err
	}
	rec = append(rec, '\n')
	for _, p := range []string{e.Input, e.Output} {
		if err := fsutil.WriteFileAtomic(a.indexPath(p), rec, 0o644); err != nil {
			return storage.Entry{}, err
		}
	}
	return e, nil
}

// Lookup returns the latest conversion whose input or output is path.
func (a *Archive) Lookup(path string) (storage.Entry, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return storage.Entry{}, err
	}
	b, err := os.ReadFile(a.indexPath(abs))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.Entry{}, fmt.Errorf("%w: no conversion recorded for %s", storage.ErrNotFound, abs)
		}
		return storage.Entry{}, err
	}

	var rec indexRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return storage.Entry{}, fmt.Errorf("%w: index for %s: %v", storage.ErrCorrupt, abs, err)
	}
	e, err := rec.entry()
	if err != nil {
		return storage.Entry{}, fmt.Errorf("%w: index for %s: %v", storage.ErrCorrupt, abs, err)
	}
	if _, _, ok := e.Side(abs); !ok {
		return storage.Entry{}, fmt.Errorf("%w: index for %s names %s", storage.ErrCorrupt, abs, e.Input)
	}
	return e, nil
}

func (r indexRecord) entry() (storage.Entry, error) {
	from, err := qbl.ParseFileType(r.From)
	if err != nil {
		return storage.Entry{}, err
	}
	output, _, err := qbl.OutputPath(r.Input)
	if err != nil {
		return storage.Entry{}, err
	}
	if output != r.Output {
		return storage.Entry{}, fmt.Errorf("output %s does not pair with input %s", r.Output, r.Input)
	}
	in, err := cid.Decode(r.InputCID)
	if err != nil {
		return storage.Entry{}, err
	}
	out, err := cid.Decode(r.OutputCID)
	if err != nil {
		return storage.Entry{}, err
	}
	return storage.Entry{Input: r.Input, Output: r.Output, From: from, InputCID: in, OutputCID: out}, nil
}

// Object returns the archived bytes for id after checking them against it.
func (a *Archive) Object(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, fmt.Errorf("%w: undefined cid", storage.ErrNotFound)
	}
	b, err := os.ReadFile(a.objectPath(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: object %s", storage.ErrNotFound, id)
		}
		return nil, err
	}
	got, err := cidutil.CID(b)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, fmt.Errorf("%w: object %s hashes to %s", storage.ErrCorrupt, id, got)
	}
	return b, nil
}

func (a *Archive) put(data []byte) (cid.Cid, error) {
	id, err := cidutil.CID(data)
	if err != nil {
		return cid.Undef, err
	}
	path := a.objectPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}
	err = fsutil.CreateExclusive(path, data, 0o444)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return cid.Undef, err
	}
	existing, rerr := a.Object(id)
	if rerr != nil || !bytes.Equal(existing, data) {
		return cid.Undef, fmt.Errorf("%w: %s", storage.ErrConflict, id)
	}
	return id, nil
}

func (a *Archive) objectPath(id cid.Cid) string {
	s := id.String()
	return filepath.Join(a.root, objectsDir, s[len(s)-2:], s)
}

func (a *Archive) indexPath(abs string) string {
	return filepath.Join(a.root, indexDir, cidutil.SHA3Hex([]byte(abs))+".json")
}
