package hook

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/ksyq12/spabuild/internal/errors"
	"github.com/ksyq12/spabuild/internal/logger"
)

// CopyFile copies one file from the project root into the output
// directory under the same name, if and only if both exist when the hook
// runs. The copy is byte-identical and written atomically.
type CopyFile struct {
	name   string
	source string
}

// NewCopyFile creates a hook copying source (absolute, or relative to the
// project root) into the output directory.
func NewCopyFile(name, source string) *CopyFile {
	return &CopyFile{name: name, source: source}
}

// Name returns the hook name.
func (c *CopyFile) Name() string {
	return c.name
}

// Source returns the configured source path.
func (c *CopyFile) Source() string {
	return c.source
}

// OnBuildComplete performs the copy. Errors are reported as warnings.
func (c *CopyFile) OnBuildComplete(ctx context.Context, info BuildInfo, r Reporter) {
	log := logger.For(c.name)
	if r == nil {
		r = OutputReporter{}
	}

	src := c.source
	if !filepath.IsAbs(src) {
		src = filepath.Join(info.Root, src)
	}
	dst := filepath.Join(info.OutDir, filepath.Base(src))

	copied, err := copyIfPresent(ctx, src, info.OutDir, dst)
	if err != nil {
		r.Warn("Could not copy %s: %v", filepath.Base(src), err)
		return
	}
	if !copied {
		log.Debug("skipped: %s or %s does not exist", src, info.OutDir)
		return
	}
	r.Success("Copied %s to %s", filepath.Base(src), info.OutDir)
}

// copyIfPresent reports false without writing when src or outDir is missing.
func copyIfPresent(ctx context.Context, src, outDir, dst string) (bool, error) {
	srcInfo, err := os.Stat(src)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeHook, "stat source", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return false, errors.Wrap(errors.ErrCodeHook, "stat source", fmt.Errorf("%s is not a regular file", src))
	}

	dirInfo, err := os.Stat(outDir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeHook, "stat output directory", err)
	}
	if !dirInfo.IsDir() {
		return false, errors.Wrap(errors.ErrCodeHook, "stat output directory", fmt.Errorf("%s is not a directory", outDir))
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := copyFile(src, dst, srcInfo.Mode().Perm(), outDir); err != nil {
		return false, err
	}
	return true, nil
}

func copyFile(src, dst string, perm os.FileMode, tempDir string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(errors.ErrCodeHook, "open source", err)
	}
	defer in.Close()

	pending, err := renameio.NewPendingFile(dst, renameio.WithPermissions(perm), renameio.WithTempDir(tempDir))
	if err != nil {
		return errors.Wrap(errors.ErrCodeHook, "create pending file", err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug("cleanup pending %s: %v", dst, err)
		}
	}()

	if _, err := io.Copy(pending, in); err != nil {
		return errors.Wrap(errors.ErrCodeHook, "write copy", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(errors.ErrCodeHook, "commit copy", err)
	}
	return nil
}
