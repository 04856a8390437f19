// Command qbl_vector_gen regenerates testdata/conformance/qbl-1.
//
// For every <name>.xml in the directory it writes <name>.qbl and the
// CIDs of both files. Run it from the module root after changing a vector.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"xdao.co/qblxml/cidutil"
	"xdao.co/qblxml/qbl"
)

func main() {
	dir := flag.String("dir", filepath.Join("testdata", "conformance", "qbl-1"), "vector directory")
	flag.Parse()

	paths, err := filepath.Glob(filepath.Join(*dir, "*.xml"))
	if err != nil {
		panic(err)
	}
	sort.Strings(paths)
	for _, p := range paths {
		xml, err := os.ReadFile(p)
		if err != nil {
			panic(err)
		}
		q, err := qbl.FromXML(xml)
		if err != nil {
			panic(err)
		}
		back, err := qbl.ToXML(q)
		if err != nil || string(back) != string(xml) {
			panic(fmt.Sprintf("%s: round trip failed: %v", p, err))
		}

		base := strings.TrimSuffix(p, ".xml")
		mustWrite(base+".qbl", q)
		mustWrite(base+".qbl.cid", []byte(cidutil.String(q)+"\n"))
		mustWrite(base+".xml.cid", []byte(cidutil.String(xml)+"\n"))
		fmt.Printf("%s\tqbl=%s\n", filepath.Base(base), cidutil.String(q))
	}
}

func mustWrite(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}
