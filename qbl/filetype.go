package qbl

import (
	"path/filepath"
	"strings"
)

// FileType is one of the two formats this package converts between.
type FileType int

const (
	FileTypeQbl FileType = iota + 1
	FileTypeXML
)

// Other returns the format a file of type t converts into.
func (t FileType) Other() FileType {
	switch t {
	case FileTypeQbl:
		return FileTypeXML
	case FileTypeXML:
		return FileTypeQbl
	default:
		return t
	}
}

// Extension returns the file extension (without the dot).
func (t FileType) Extension() string {
	switch t {
	case FileTypeQbl:
		return "qbl"
	case FileTypeXML:
		return "xml"
	default:
		return ""
	}
}

func (t FileType) String() string {
	if ext := t.Extension(); ext != "" {
		return ext
	}
	return "unknown"
}

// ParseFileType maps an extension (without the dot) to a FileType.
// Matching is exact: "XML" is not "xml".
func ParseFileType(ext string) (FileType, error) {
	switch ext {
	case "qbl":
		return FileTypeQbl, nil
	case "xml":
		return FileTypeXML, nil
	default:
		return 0, NewError(KindUnsupportedExtension, "QBL-EXT-001", "unsupported file extension "+quoteExt(ext))
	}
}

// FileTypeFromPath returns the FileType named by the final extension of path.
// A dotfile such as ".qbl" has no extension.
func FileTypeFromPath(path string) (FileType, error) {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		ext = ""
	}
	return ParseFileType(strings.TrimPrefix(ext, "."))
}

// OutputPath returns path with its extension swapped to the other format,
// along with the type of path itself.
func OutputPath(path string) (string, FileType, error) {
	t, err := FileTypeFromPath(path)
	if err != nil {
		return "", 0, err
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return base + "." + t.Other().Extension(), t, nil
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return "\"" + ext + "\""
}
