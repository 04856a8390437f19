package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"time"

	"xdao.co/qblxml/cidutil"
	"xdao.co/qblxml/convert"
	"xdao.co/qblxml/grpcconv"
	"xdao.co/qblxml/qbl"
	"xdao.co/qblxml/storage/localfs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "convert":
		return cmdConvert(ctx, args[1:], out, errOut)
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "digest":
		return cmdDigest(args[1:], out, errOut)
	case "restore":
		return cmdRestore(args[1:], out, errOut)
	case "version", "--version":
		fmt.Fprintln(out, "qblxml", version())
		return 0
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(errOut, "unknown flag: %s\n\n", args[0])
			printUsage(errOut)
			return 2
		}
		// Bare file arguments convert.
		return cmdConvert(ctx, args, out, errOut)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "qblxml: convert between .qbl and .xml files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  qblxml <file>")
	fmt.Fprintln(w, "  qblxml convert [--jobs N] [--archive DIR] [--remote HOST:PORT [--dial-timeout D] [--remote-timeout D]] [--quiet] <file> [<file> ...]")
	fmt.Fprintln(w, "  qblxml inspect <file.qbl>")
	fmt.Fprintln(w, "  qblxml digest <file>")
	fmt.Fprintln(w, "  qblxml restore --archive DIR [--to DEST] <file>")
	fmt.Fprintln(w, "  qblxml version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - the output is written next to the input with the other extension (save.qbl <-> save.xml)")
	fmt.Fprintln(w, "  - an existing output file is replaced only after conversion succeeds")
	fmt.Fprintln(w, "  - --archive records every conversion; restore brings back a file as of its latest one")
	fmt.Fprintln(w, "  - --remote delegates the transform to a running qblxmld")
}

func cmdConvert(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var jobs int
	var archiveDir string
	var remote string
	var dialTimeout time.Duration
	var remoteTimeout time.Duration
	var quiet bool
	fs.IntVar(&jobs, "jobs", 1, "Number of files to convert concurrently")
	fs.StringVar(&archiveDir, "archive", "", "Record every conversion in an archive rooted at DIR")
	fs.StringVar(&remote, "remote", "", "Convert through a qblxmld at HOST:PORT instead of in-process")
	fs.DurationVar(&dialTimeout, "dial-timeout", 5*time.Second, "Timeout for connecting to --remote (0 connects lazily)")
	fs.DurationVar(&remoteTimeout, "remote-timeout", 30*time.Second, "Per-file timeout for --remote")
	fs.BoolVar(&quiet, "quiet", false, "Suppress progress messages")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: qblxml convert [flags] <file> [<file> ...]")
		return 2
	}

	opts := convert.Options{Jobs: jobs}
	if !quiet {
		opts.Progress = out
	}
	if archiveDir != "" {
		archive, err := localfs.New(archiveDir)
		if err != nil {
			fmt.Fprintf(errOut, "open archive: %v\n", err)
			return 1
		}
		opts.Archive = archive
	}
	if remote != "" {
		client, err := grpcconv.Dial(remote, grpcconv.DialOptions{Timeout: dialTimeout})
		if err != nil {
			fmt.Fprintf(errOut, "dial %s: %v\n", remote, err)
			return 1
		}
		defer client.Close()
		client.Timeout = remoteTimeout
		opts.Converter = client
	}

	results, err := convert.Files(ctx, fs.Args(), opts)
	if opts.Archive != nil && !quiet {
		for _, r := range results {
			if r.InputCID == "" {
				continue
			}
			fmt.Fprintf(out, "Archived %s as %s\n", r.Input, r.InputCID)
			fmt.Fprintf(out, "Archived %s as %s\n", r.Output, r.OutputCID)
		}
	}
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	return 0
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: qblxml inspect <file.qbl>")
		return 2
	}
	path := fs.Arg(0)
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", path, err)
		return 1
	}
	report, err := inspect(b)
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "file:            %s\n", path)
	fmt.Fprint(out, report)
	return 0
}

func cmdDigest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: qblxml digest <file>")
		return 2
	}
	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", fs.Arg(0), err)
		return 1
	}
	id, err := cidutil.CID(b)
	if err != nil {
		fmt.Fprintf(errOut, "cid: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "cid:      %s\n", id)
	fmt.Fprintf(out, "sha3-256: %s\n", cidutil.SHA3Hex(b))
	return 0
}

func cmdRestore(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(errOut)
	var archiveDir string
	var to string
	fs.StringVar(&archiveDir, "archive", "", "Archive directory written by convert --archive")
	fs.StringVar(&to, "to", "", "Write the restored file here instead of over <file>")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if archiveDir == "" || fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: qblxml restore --archive DIR [--to DEST] <file>")
		return 2
	}
	archive, err := localfs.New(archiveDir)
	if err != nil {
		fmt.Fprintf(errOut, "open archive: %v\n", err)
		return 1
	}
	path := fs.Arg(0)
	id, err := convert.Restore(archive, path, to)
	if err != nil {
		reportError(errOut, err)
		return 1
	}
	dest := path
	if to != "" {
		dest = to
	}
	fmt.Fprintf(out, "Restored %s from %s\n", dest, id)
	return 0
}

func reportError(w io.Writer, err error) {
	var e *qbl.Error
	if errors.As(err, &e) && e.RuleID != "" {
		fmt.Fprintf(w, "error [%s %s]: %v\n", e.Kind, e.RuleID, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
