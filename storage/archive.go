// Package storage defines the conversion archive: every qbl/xml conversion
// qblxml performs is recorded as an Entry, with the bytes of both sides kept
// as immutable objects addressed by CID.
package storage

import (
	"github.com/ipfs/go-cid"

	"xdao.co/qblxml/qbl"
)

// Entry records one conversion. Input and Output are absolute paths; Output
// is always qbl.OutputPath(Input) and From is the type of Input.
type Entry struct {
	Input     string
	Output    string
	From      qbl.FileType
	InputCID  cid.Cid
	OutputCID cid.Cid
}

// Side returns the object recorded for path and its file type. ok is false
// when path is neither the input nor the output of e.
func (e Entry) Side(path string) (id cid.Cid, t qbl.FileType, ok bool) {
	switch path {
	case e.Input:
		return e.InputCID, e.From, true
	case e.Output:
		return e.OutputCID, e.From.Other(), true
	default:
		return cid.Undef, 0, false
	}
}

// QblCID returns the object holding the qbl side of the conversion.
func (e Entry) QblCID() cid.Cid {
	if e.From == qbl.FileTypeQbl {
		return e.InputCID
	}
	return e.OutputCID
}

// Archive records conversions and serves the archived bytes back.
//
// Record stores in and out, then indexes the conversion under both its input
// and output path; a later conversion of the same path replaces the index
// entry but never an object. Lookup returns ErrNotFound for paths that were
// never converted.
type Archive interface {
	Record(input string, from qbl.FileType, in, out []byte) (Entry, error)
	Lookup(path string) (Entry, error)
	Object(id cid.Cid) ([]byte, error)
}
