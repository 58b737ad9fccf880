// Package iofs deals with the file system: application directories,
// discovery of input files, names of reports and safe writing of files.
package iofs

import (
	_ "embed"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnames/gnkreport/pkg/config"
	"github.com/gnames/gnsys"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// EnsureOutputDir creates the directory for reports if it is missing.
func EnsureOutputDir(dir string) error {
	if err := gnsys.MakeDir(dir); err != nil {
		return CreateDirError(dir, err)
	}
	return nil
}

// ListInputs returns regular files of a directory sorted by name.
// Symlinks to regular files are included. Hidden files, subdirectories
// and broken links are ignored.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ListDirError(dir, err)
	}

	var res []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !e.Type().IsRegular() && !isRegularTarget(path) {
			continue
		}
		res = append(res, path)
	}
	return res, nil
}

// isRegularTarget follows symlinks and reports if path ends at a regular
// file.
func isRegularTarget(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		slog.Warn("Skipping unreadable input", "path", path, "error", err)
		return false
	}
	return info.Mode().IsRegular()
}

// OutputPaths returns report paths in outDir for every input. A report is
// named after the input without its last extension. When two inputs
// would get the same report, the later one keeps its full name. Such
// inputs are returned as renamed.
func OutputPaths(inputs []string, outDir string) (paths, renamed []string) {
	seen := make(map[string]struct{}, len(inputs))
	paths = make([]string, len(inputs))
	for i, in := range inputs {
		base := filepath.Base(in)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		out := filepath.Join(outDir, name+config.ReportSuffix)
		if _, ok := seen[out]; ok {
			out = filepath.Join(outDir, base+config.ReportSuffix)
			renamed = append(renamed, in)
		}
		seen[out] = struct{}{}
		paths[i] = out
	}
	return paths, renamed
}

// File is an opened input. Compressed inputs are decompressed on the fly.
type File struct {
	io.Reader

	f   *os.File
	gz  *pgzip.Reader
	zst *zstd.Decoder
}

// WrapFunc decorates the raw reader of a file of the given size, for
// example with a progress bar.
type WrapFunc func(r io.Reader, size int64) io.Reader

// Open opens an input file. Files with '.gz' or '.zst' extension are
// decompressed.
// If wrap is not nil, it receives the raw file reader before
// decompression, so a progress bar shows progress over bytes on disk.
func Open(path string, wrap WrapFunc) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ReadFileError(path, err)
	}

	var r io.Reader = f
	if wrap != nil {
		r = wrap(f, info.Size())
	}

	res := &File{Reader: r, f: f}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		res.gz, err = pgzip.NewReader(r)
		if err != nil {
			f.Close()
			return nil, ReadFileError(path, err)
		}
		res.Reader = res.gz
	case ".zst":
		res.zst, err = zstd.NewReader(r)
		if err != nil {
			f.Close()
			return nil, ReadFileError(path, err)
		}
		res.Reader = res.zst
	}
	return res, nil
}

// Close closes the decompressor and the file.
func (f *File) Close() error {
	var err error
	if f.gz != nil {
		err = f.gz.Close()
	}
	if f.zst != nil {
		f.zst.Close()
	}
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteAtomic creates path with the content produced by write. Data goes
// to a temporary file in the same directory that replaces path only when
// write succeeds. Otherwise the temporary file is removed and path is left
// untouched.
func WriteAtomic(path string, write func(io.Writer) error) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return WriteFileError(path, err)
	}
	tmpPath := tmp.Name()

	if err = write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return WriteFileError(path, err)
	}

	if err = os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return WriteFileError(path, err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return WriteFileError(path, err)
	}
	return nil
}
