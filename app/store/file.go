package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/tienda/app/models"
	"github.com/shashiranjanraj/tienda/pkg/metrics"
	"github.com/shashiranjanraj/tienda/pkg/paginate"
)

// fileCollection persists one JSON array under a mutex. Every mutation is a
// full load-mutate-save cycle; the save writes a sibling temp file and
// renames it over the target so readers never see a torn document.
type fileCollection struct {
	mu   sync.Mutex
	path string
}

func (f *fileCollection) load(dest any) error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // missing file is an empty collection
		}
		return fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	return nil
}

func (f *fileCollection) save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(f.path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tienda-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", f.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// FileProducts stores the catalog as a JSON array on disk.
type FileProducts struct {
	fileCollection
}

// NewFileProducts opens (lazily) a catalog file under dir.
func NewFileProducts(dir string) *FileProducts {
	return &FileProducts{fileCollection{path: filepath.Join(dir, "products.json")}}
}

func (s *FileProducts) all() ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Product
	if err := s.load(&items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *FileProducts) All(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveStoreOp("file", "products.all", time.Now())
	return s.all()
}

func (s *FileProducts) Paginate(ctx context.Context, q ListQuery) (*ProductPage, error) {
	defer metrics.ObserveStoreOp("file", "products.paginate", time.Now())
	q = q.Normalize()
	items, err := s.all()
	if err != nil {
		return nil, err
	}
	if q.Category != "" {
		filtered := items[:0:0]
		for _, p := range items {
			if p.Category == q.Category {
				filtered = append(filtered, p)
			}
		}
		items = filtered
	}
	switch q.Sort {
	case "asc":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case "desc":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	}
	meta := paginate.NewMeta(int64(len(items)), q.Limit, q.Page)
	start := paginate.Offset(q.Limit, q.Page)
	if start > len(items) {
		start = len(items)
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return &ProductPage{Items: items[start:end], Meta: meta}, nil
}

func (s *FileProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	items, err := s.all()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileProducts) MaxID(ctx context.Context) (int64, error) {
	items, err := s.all()
	if err != nil {
		return 0, err
	}
	var max int64
	for _, p := range items {
		if p.ID > max {
			max = p.ID
		}
	}
	return max, nil
}

func (s *FileProducts) Insert(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("file", "products.insert", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Product
	if err := s.load(&items); err != nil {
		return err
	}
	items = append(items, *p)
	return s.save(items)
}

func (s *FileProducts) Update(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveStoreOp("file", "products.update", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Product
	if err := s.load(&items); err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == p.ID {
			items[i] = *p
			return s.save(items)
		}
	}
	return ErrNotFound
}

func (s *FileProducts) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveStoreOp("file", "products.delete", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Product
	if err := s.load(&items); err != nil {
		return err
	}
	kept := items[:0:0]
	found := false
	for _, p := range items {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}
	return s.save(kept)
}

func (s *FileProducts) CountByIDs(ctx context.Context, ids []int64) (int64, error) {
	items, err := s.all()
	if err != nil {
		return 0, err
	}
	present := make(map[int64]struct{}, len(items))
	for _, p := range items {
		present[p.ID] = struct{}{}
	}
	var n int64
	for _, id := range dedupeIDs(ids) {
		if _, ok := present[id]; ok {
			n++
		}
	}
	return n, nil
}

func (s *FileProducts) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	items, err := s.all()
	if err != nil {
		return false, err
	}
	for _, p := range items {
		if p.Code == code && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// FileCarts stores carts as a JSON array on disk. Cart ids are assigned on
// Create as max+1 under the same mutex that serializes the write.
type FileCarts struct {
	fileCollection
}

func NewFileCarts(dir string) *FileCarts {
	return &FileCarts{fileCollection{path: filepath.Join(dir, "carts.json")}}
}

func (s *FileCarts) Create(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("file", "carts.create", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Cart
	if err := s.load(&items); err != nil {
		return err
	}
	var max int64
	for _, existing := range items {
		if existing.ID > max {
			max = existing.ID
		}
	}
	c.ID = max + 1
	items = append(items, *c)
	return s.save(items)
}

func (s *FileCarts) Get(ctx context.Context, id int64) (*models.Cart, error) {
	defer metrics.ObserveStoreOp("file", "carts.get", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Cart
	if err := s.load(&items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileCarts) Save(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveStoreOp("file", "carts.save", time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.Cart
	if err := s.load(&items); err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == c.ID {
			items[i] = *c
			return s.save(items)
		}
	}
	return ErrNotFound
}
