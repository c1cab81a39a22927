package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore is the content-storage collaborator: save bytes under a name,
// delete a stored name, check existence.
type FileStore interface {
	Save(src io.Reader, name string) error
	Delete(name string) error
	Exists(name string) bool
	Path(name string) string
}

type diskStoreImpl struct {
	dir string
}

func NewDiskStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &diskStoreImpl{dir: dir}, nil
}

func (s *diskStoreImpl) Save(src io.Reader, name string) error {
	dst, err := os.Create(s.Path(name))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func (s *diskStoreImpl) Delete(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}

func (s *diskStoreImpl) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

func (s *diskStoreImpl) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}
