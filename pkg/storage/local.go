package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shashiranjanraj/tienda/config"
)

// localDisk is the local-filesystem driver.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk() *localDisk {
	return &localDisk{
		root:    config.StorageLocalRoot(),
		baseURL: strings.TrimRight(config.StorageURL(), "/"),
	}
}

func (d *localDisk) fullPath(path string) string {
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimLeft(path, "/")))
}

func (d *localDisk) Put(path string, content []byte) error {
	full := d.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir %s: %w", path, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) PutStream(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage/local: read stream: %w", err)
	}
	return d.Put(path, data)
}

func (d *localDisk) Get(path string) ([]byte, error) {
	data, err := os.ReadFile(d.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("storage/local: read %s: %w", path, err)
	}
	return data, nil
}

func (d *localDisk) Exists(path string) bool {
	_, err := os.Stat(d.fullPath(path))
	return err == nil
}

func (d *localDisk) Delete(path string) error {
	err := os.Remove(d.fullPath(path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Root returns the on-disk directory backing the local driver, for mounting
// a static file server.
func (d *localDisk) Root() string { return d.root }

// LocalRoot returns the local driver's root directory.
func LocalRoot() string {
	if d, ok := Use("local").(*localDisk); ok {
		return d.Root()
	}
	return config.StorageLocalRoot()
}
