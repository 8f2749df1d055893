// Package dataset finds SEC financial statement data sets on disk.
//
// A data set is a sub.txt/num.txt pair, either extracted into a directory
// or still inside the quarterly zip published by the SEC (2020q1.zip, ...).
// Either file may also be gzipped (sub.txt.gz).
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

const (
	SubmissionsFile = "sub.txt"
	FactsFile       = "num.txt"
)

// Kind tells how a source is stored
type Kind int

const (
	Dir Kind = iota
	Archive
)

func (k Kind) String() string {
	if k == Archive {
		return "zip"
	}
	return "dir"
}

// Source is one discovered data set.
type Source struct {
	Name string
	Path string
	Kind Kind
}

// Files holds the open readers of a source. Close releases all of them.
type Files struct {
	Submissions     io.Reader
	Facts           io.Reader
	SubmissionsName string
	FactsName       string
	closers         []io.Closer
}

func (f *Files) Close() error {
	var errs []error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}

// Discover returns the data sets under root, sorted by name. root itself
// counts when it holds a pair.
func Discover(root string) ([]Source, error) {
	if hasPair(root) {
		return []Source{{Name: filepath.Base(root), Path: root, Kind: Dir}}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", root, err)
	}

	var sources []Source
	for _, e := range entries {
		path := filepath.Join(root, e.Name())
		switch {
		case e.IsDir() && hasPair(path):
			sources = append(sources, Source{Name: e.Name(), Path: path, Kind: Dir})
		case !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".zip"):
			ok, err := archiveHasPair(path)
			if err != nil {
				return nil, err
			}
			if ok {
				name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
				sources = append(sources, Source{Name: name, Path: path, Kind: Archive})
			}
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

// Open opens both files of the source.
func (s Source) Open() (*Files, error) {
	if s.Kind == Archive {
		return s.openArchive()
	}
	return s.openDir()
}

func (s Source) openDir() (*Files, error) {
	files := &Files{}
	for _, base := range []string{SubmissionsFile, FactsFile} {
		path, ok := findFile(s.Path, base)
		if !ok {
			files.Close()
			return nil, fmt.Errorf("%s: missing %s", s.Path, base)
		}
		f, err := os.Open(path)
		if err != nil {
			files.Close()
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		files.closers = append(files.closers, f)
		r, err := decompress(path, f, files)
		if err != nil {
			files.Close()
			return nil, err
		}
		files.set(base, path, r)
	}
	return files, nil
}

func (s Source) openArchive() (*Files, error) {
	zr, err := zip.OpenReader(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", s.Path, err)
	}
	files := &Files{closers: []io.Closer{zr}}
	for _, base := range []string{SubmissionsFile, FactsFile} {
		member := findMember(zr.File, base)
		if member == nil {
			files.Close()
			return nil, fmt.Errorf("%s: missing %s", s.Path, base)
		}
		rc, err := member.Open()
		if err != nil {
			files.Close()
			return nil, fmt.Errorf("failed to open %s in %s: %w", member.Name, s.Path, err)
		}
		files.closers = append(files.closers, rc)
		name := s.Path + "!" + member.Name
		r, err := decompress(member.Name, rc, files)
		if err != nil {
			files.Close()
			return nil, err
		}
		files.set(base, name, r)
	}
	return files, nil
}

func (f *Files) set(base, name string, r io.Reader) {
	if base == SubmissionsFile {
		f.Submissions, f.SubmissionsName = r, name
		return
	}
	f.Facts, f.FactsName = r, name
}

func decompress(name string, r io.Reader, files *Files) (io.Reader, error) {
	if !strings.HasSuffix(name, ".gz") {
		return r, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gzip %s: %w", name, err)
	}
	files.closers = append(files.closers, gz)
	return gz, nil
}

func findFile(dir, base string) (string, bool) {
	for _, name := range []string{base, base + ".gz"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func hasPair(dir string) bool {
	_, sub := findFile(dir, SubmissionsFile)
	_, num := findFile(dir, FactsFile)
	return sub && num
}

// findMember matches on the base name so nested archive layouts work too.
func findMember(members []*zip.File, base string) *zip.File {
	for _, m := range members {
		name := filepath.Base(m.Name)
		if name == base || name == base+".gz" {
			return m
		}
	}
	return nil
}

func archiveHasPair(path string) (bool, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()
	return findMember(zr.File, SubmissionsFile) != nil && findMember(zr.File, FactsFile) != nil, nil
}
