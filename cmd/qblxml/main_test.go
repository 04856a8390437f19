package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"xdao.co/qblxml/cidutil"
	"xdao.co/qblxml/qbl"
	"xdao.co/qblxml/storage/localfs"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_NoArgs(t *testing.T) {
	code, _, errOut := runCLI(t)
	if code != 2 {
		t.Fatalf("exit code %d want 2", code)
	}
	if !strings.Contains(errOut, "Usage:") {
		t.Fatalf("expected usage on stderr, got %q", errOut)
	}
}

func TestRun_BareFileConverts(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "save.xml")
	if err := os.WriteFile(xmlPath, []byte("<a/>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	code, out, errOut := runCLI(t, xmlPath)
	if code != 0 {
		t.Fatalf("exit code %d, stderr=%q", code, errOut)
	}
	qblPath := filepath.Join(dir, "save.qbl")
	want := "Reading data from " + xmlPath + "\n" +
		"Converting from xml to qbl\n" +
		"Writing to " + qblPath + "\n" +
		"Done\n"
	if out != want {
		t.Fatalf("stdout:\n%s\nwant:\n%s", out, want)
	}
	got, err := os.ReadFile(qblPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if x, err := qbl.ToXML(got); err != nil || string(x) != "<a/>" {
		t.Fatalf("ToXML(output) = %q, %v", x, err)
	}
}

func TestRun_ConvertQuietWithArchive(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.xml")
	if err := os.WriteFile(p, []byte("<x/>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	archive := filepath.Join(t.TempDir(), "archive")

	code, out, errOut := runCLI(t, "convert", "--quiet", "--archive", archive, p)
	if code != 0 {
		t.Fatalf("exit code %d, stderr=%q", code, errOut)
	}
	if out != "" {
		t.Fatalf("expected no stdout with --quiet, got %q", out)
	}
	a, err := localfs.New(archive)
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	e, err := a.Lookup(p)
	if err != nil {
		t.Fatalf("conversion not archived: %v", err)
	}
	if e.InputCID.String() != cidutil.String([]byte("<x/>")) {
		t.Fatalf("archived input CID %s", e.InputCID)
	}
}

func TestRun_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(p, []byte("hi"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	code, _, errOut := runCLI(t, p)
	if code != 1 {
		t.Fatalf("exit code %d want 1", code)
	}
	if !strings.Contains(errOut, "QBL-EXT-001") {
		t.Fatalf("expected rule id in stderr, got %q", errOut)
	}
}

func TestRun_MalformedQbl(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "short.qbl")
	if err := os.WriteFile(p, []byte{0x7E}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	code, _, errOut := runCLI(t, p)
	if code != 1 {
		t.Fatalf("exit code %d want 1", code)
	}
	if !strings.Contains(errOut, "QBL-ENV-001") {
		t.Fatalf("expected QBL-ENV-001 in stderr, got %q", errOut)
	}
	if _, err := os.Stat(filepath.Join(dir, "short.xml")); !os.IsNotExist(err) {
		t.Fatalf("output must not exist after failure, stat err=%v", err)
	}
}

func TestRun_Inspect(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.qbl")
	b, err := qbl.FromXML([]byte("<a/>"))
	if err != nil {
		t.Fatalf("FromXML: %v", err)
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	code, out, errOut := runCLI(t, "inspect", p)
	if code != 0 {
		t.Fatalf("exit code %d, stderr=%q", code, errOut)
	}
	for _, want := range []string{
		"size:            29\n",
		"outer length:    23\n",
		"inner length:    16\n",
		"cipher blocks:   1\n",
		"padding:         11\n",
		"length prefix:   4 (1 bytes)\n",
		"payload:         4\n",
		"prefix matches:  yes\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestInspect_ReportsPrefixMismatch(t *testing.T) {
	// Prefix claims 9 bytes, payload has 2; conversion accepts it, inspect flags it.
	b, err := qbl.EncodeEnvelope(qbl.Encrypt([]byte{0x09, 'h', 'i'}))
	if err != nil {
		t.Fatalf("EncodeEnvelope: %v", err)
	}
	if _, err := qbl.ToXML(b); err != nil {
		t.Fatalf("ToXML: %v", err)
	}
	report, err := inspect(b)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(report, "prefix matches:  no\n") {
		t.Fatalf("expected mismatch to be reported:\n%s", report)
	}
}

func TestRun_Digest(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.xml")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	code, out, errOut := runCLI(t, "digest", p)
	if code != 0 {
		t.Fatalf("exit code %d, stderr=%q", code, errOut)
	}
	want := "cid:      " + cidutil.String(nil) + "\n" +
		"sha3-256: a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a\n"
	if out != want {
		t.Fatalf("digest output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, _ := runCLI(t, "--frobnicate")
	if code != 2 {
		t.Fatalf("exit code %d want 2", code)
	}
}

func TestRun_ArchiveThenRestore(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")
	qblPath := filepath.Join(dir, "save.qbl")
	orig, err := qbl.FromXML([]byte("<save gold=\"10\"/>"))
	if err != nil {
		t.Fatalf("FromXML: %v", err)
	}
	if err := os.WriteFile(qblPath, orig, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	code, out, errOut := runCLI(t, "convert", "--archive", archive, qblPath)
	if code != 0 {
		t.Fatalf("convert exit code %d, stderr=%q", code, errOut)
	}
	id := cidutil.String(orig)
	if !strings.Contains(out, "Archived "+qblPath+" as "+id+"\n") {
		t.Fatalf("expected archive line for input, got:\n%s", out)
	}

	if err := os.WriteFile(qblPath, []byte("clobbered"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	code, out, errOut = runCLI(t, "restore", "--archive", archive, qblPath)
	if code != 0 {
		t.Fatalf("restore exit code %d, stderr=%q", code, errOut)
	}
	if out != "Restored "+qblPath+" from "+id+"\n" {
		t.Fatalf("unexpected restore output: %q", out)
	}
	got, err := os.ReadFile(qblPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, orig) {
		t.Fatalf("restored bytes mismatch")
	}

	dest := filepath.Join(dir, "copy.xml")
	code, _, errOut = runCLI(t, "restore", "--archive", archive, "--to", dest, filepath.Join(dir, "save.xml"))
	if code != 0 {
		t.Fatalf("restore --to exit code %d, stderr=%q", code, errOut)
	}
	x, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(x) != "<save gold=\"10\"/>" {
		t.Fatalf("restored xml = %q", x)
	}
}

func TestRun_RestoreNotArchived(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := runCLI(t, "restore", "--archive", filepath.Join(dir, "archive"), filepath.Join(dir, "never.qbl"))
	if code != 1 {
		t.Fatalf("exit code %d want 1", code)
	}
	if !strings.Contains(errOut, "QBL-IO-004") {
		t.Fatalf("expected QBL-IO-004 on stderr, got %q", errOut)
	}
}

func TestRun_RestoreUsage(t *testing.T) {
	if code, _, _ := runCLI(t, "restore", "save.qbl"); code != 2 {
		t.Fatalf("exit code %d want 2", code)
	}
	if code, _, _ := runCLI(t, "restore", "--archive", t.TempDir(), "a.qbl", "b.qbl"); code != 2 {
		t.Fatalf("exit code %d want 2", code)
	}
}

func TestRun_RemoteDialTimeout(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	addr := lis.Addr().String()
	_ = lis.Close()

	dir := t.TempDir()
	p := filepath.Join(dir, "save.xml")
	if err := os.WriteFile(p, []byte("<a/>"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	start := time.Now()
	code, _, errOut := runCLI(t, "convert", "--remote", addr, "--dial-timeout", "200ms", p)
	if code != 1 {
		t.Fatalf("exit code %d want 1, stderr=%q", code, errOut)
	}
	if !strings.HasPrefix(errOut, "dial "+addr) {
		t.Fatalf("expected dial error, got %q", errOut)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("dial did not honor --dial-timeout: took %s", elapsed)
	}
	if _, err := os.Stat(filepath.Join(dir, "save.qbl")); !os.IsNotExist(err) {
		t.Fatalf("no output expected after failed dial")
	}
}
