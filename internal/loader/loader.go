package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/qcypher/internal/qgraph"
)

// Format is the syntax of a query file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

var extensions = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".cue":  FormatCUE,
}

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", &LoadError{Code: ErrCodeUnsupported, Path: path, Message: fmt.Sprintf("unsupported file extension %q (want .json, .yaml, .yml or .cue)", filepath.Ext(path))}
}

// Load reads and decodes one query file.
func Load(path string) (*qgraph.QGraph, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: err.Error(), Err: err}
	}

	return Parse(data, format, path)
}

// Parse decodes a document of the given format. filename appears in errors.
func Parse(data []byte, format Format, filename string) (*qgraph.QGraph, error) {
	var (
		q   *qgraph.QGraph
		err error
	)
	switch format {
	case FormatJSON:
		q, err = qgraph.DecodeJSON(data)
	case FormatYAML:
		q, err = qgraph.DecodeYAML(data)
	case FormatCUE:
		return ParseCUE(data, filename)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Path: filename, Message: fmt.Sprintf("unsupported format %q", format)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecodeFailed, Path: filename, Message: err.Error(), Err: err}
	}
	return q, nil
}

// FindQueryFiles walks dir and returns every file with a known extension,
// sorted by path.
func FindQueryFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "directory not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Path: dir, Message: err.Error(), Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: dir, Message: "not a directory"}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Path: dir, Message: err.Error(), Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Path: dir, Message: "no query files found"}
	}

	sort.Strings(files)
	return files, nil
}
