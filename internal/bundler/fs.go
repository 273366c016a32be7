package bundler

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/logger"
)

// emptyDir removes the contents of outDir. Directories that are not
// strictly inside root are left alone.
func emptyDir(root, outDir string) error {
	if !within(root, outDir) {
		logger.For("bundler").Warn("%s is outside the project root, not emptying it", outDir)
		return nil
	}
	entries, err := os.ReadDir(outDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to read output directory", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(outDir, e.Name())); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to empty output directory", err)
		}
	}
	return nil
}

// within reports whether p is strictly inside dir.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapSubject(errors.ErrCodeInternal, path, err)
	}
	return nil
}

// copyDir copies every regular file under src into dst, keeping relative
// paths. A missing src copies nothing.
func copyDir(src, dst string) ([]OutputFile, error) {
	if src == "" {
		return nil, nil
	}
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		return nil, nil
	}

	var files []OutputFile
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		size, err := copyRegular(p, filepath.Join(dst, rel))
		if err != nil {
			return err
		}
		files = append(files, OutputFile{Path: filepath.ToSlash(rel), Size: size})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to copy public directory", err)
	}
	return files, nil
}

func copyRegular(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
