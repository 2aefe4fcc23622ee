// AngelaMos | 2026
// disk.go

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore keeps every upload in one flat directory. References are the
// public path the file is served under, without the leading slash,
// e.g. uploads/projects/1718000000000-42.jpg for root .../projects and
// public prefix /uploads. The directory holding root is what gets mounted
// at the public prefix.
type DiskStore struct {
	root      string
	refPrefix string
}

func NewDiskStore(root, publicPrefix string) (*DiskStore, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{
		root:      root,
		refPrefix: path.Join(strings.Trim(publicPrefix, "/"), filepath.Base(root)),
	}, nil
}

func (s *DiskStore) Save(
	ctx context.Context,
	name, _ string,
	body io.ReadSeeker,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if name != filepath.Base(name) {
		return "", fmt.Errorf("save %q: %w", name, ErrOutsideRoot)
	}

	dst := filepath.Join(s.root, name)

	//nolint:gosec // G304: name is generated server-side and checked above
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()      //nolint:errcheck // already failing
		_ = os.Remove(dst) //nolint:errcheck // partial file cleanup
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return path.Join(s.refPrefix, name), nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(file); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}

// resolve maps a reference produced by Save back to its file. Only a single
// name directly under the ref prefix is accepted.
func (s *DiskStore) resolve(ref string) (string, error) {
	dir, name := path.Split(path.Clean(strings.TrimPrefix(ref, "/")))
	if path.Clean(dir) != path.Clean(s.refPrefix) || name == "" || name == ".." {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrOutsideRoot)
	}

	return filepath.Join(s.root, name), nil
}

// Ping reports whether the upload directory still exists.
func (s *DiskStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("stat upload dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload root %s is not a directory", s.root)
	}

	return nil
}
