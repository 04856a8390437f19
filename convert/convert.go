// Package convert converts qbl and xml files on disk.
//
// It owns everything around the byte-level pipeline in package qbl:
// choosing the direction from the file extension, reading the input,
// writing the output without ever leaving a partial file behind, and
// optionally archiving both sides in a content-addressed store.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"xdao.co/qblxml/internal/fsutil"
	"xdao.co/qblxml/qbl"
	"xdao.co/qblxml/storage"
)

// Converter transforms bytes of type from into the other file type.
type Converter interface {
	Convert(ctx context.Context, from qbl.FileType, in []byte) ([]byte, error)
}

// Local runs the qbl pipeline in-process.
type Local struct{}

func (Local) Convert(_ context.Context, from qbl.FileType, in []byte) ([]byte, error) {
	return qbl.Convert(from, in)
}

// Options control File and Files. The zero value converts locally, silently,
// one file at a time.
type Options struct {
	// Converter performs the transform; nil means Local.
	Converter Converter

	// Archive, when set, records every successful conversion.
	Archive storage.Archive

	// Progress receives human-readable progress lines; nil discards them.
	Progress io.Writer

	// Jobs bounds how many files Files converts concurrently; <= 0 means 1.
	Jobs int
}

// Result describes one finished conversion.
type Result struct {
	Input  string
	Output string
	From   qbl.FileType

	// InputCID and OutputCID are set only when Options.Archive is set.
	InputCID  string
	OutputCID string
}

// File converts the file at path into its sibling with the other extension.
func File(ctx context.Context, path string, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	conv := opts.Converter
	if conv == nil {
		conv = Local{}
	}
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	outPath, from, err := qbl.OutputPath(path)
	if err != nil {
		return Result{}, err
	}
	res := Result{Input: path, Output: outPath, From: from}

	fmt.Fprintf(progress, "Reading data from %s\n", path)
	in, err := os.ReadFile(path)
	if err != nil {
		return Result{}, qbl.WrapError(qbl.KindIO, "QBL-IO-001", "could not read input file "+path, err)
	}

	fmt.Fprintf(progress, "Converting from %s to %s\n", from, from.Other())
	out, err := conv.Convert(ctx, from, in)
	if err != nil {
		return Result{}, err
	}

	// Archive before writing so a failed archive leaves no output behind.
	if opts.Archive != nil {
		e, err := opts.Archive.Record(path, from, in, out)
		if err != nil {
			return Result{}, qbl.WrapError(qbl.KindIO, "QBL-IO-003", "could not archive conversion of "+path, err)
		}
		res.InputCID, res.OutputCID = e.InputCID.String(), e.OutputCID.String()
	}

	fmt.Fprintf(progress, "Writing to %s\n", outPath)
	if err := fsutil.WriteFileAtomic(outPath, out, 0o644); err != nil {
		return Result{}, qbl.WrapError(qbl.KindIO, "QBL-IO-002", "could not write output file "+outPath, err)
	}

	fmt.Fprintln(progress, "Done")
	return res, nil
}

// Files converts every path, up to opts.Jobs at a time. Files share no
// state, so each is an independent pipeline. The first failure cancels
// conversions that have not started yet; results are index-aligned with
// paths and hold the zero Result for files that were not converted.
func Files(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	if opts.Progress != nil && jobs > 1 {
		opts.Progress = &lockedWriter{w: opts.Progress}
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			res, err := File(gctx, p, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	return results, g.Wait()
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
