package preset

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository 进程内实现，并发安全
type MemoryRepository struct {
	mu      sync.RWMutex
	presets map[string]*Preset
	nextID  uint
}

// NewMemoryRepository 创建空仓库
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{presets: make(map[string]*Preset)}
}

// NewSeededMemoryRepository 创建带内置预设的仓库
func NewSeededMemoryRepository() *MemoryRepository {
	r := NewMemoryRepository()
	// 内置预设都合法，Seed 不会失败
	_ = Seed(context.Background(), r)
	return r
}

func (r *MemoryRepository) Create(_ context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[p.Name]; ok {
		return ErrPresetExists
	}
	r.nextID++
	now := time.Now().UnixMilli()
	p.ID = r.nextID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.presets[p.Name] = p.Clone()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, name string) (*Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.presets[name]
	if !ok {
		return nil, ErrPresetNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*Preset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Preset, 0, len(r.presets))
	for _, p := range r.presets {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.presets[name]; !ok {
		return ErrPresetNotFound
	}
	delete(r.presets, name)
	return nil
}

func isExists(err error) bool {
	return errors.Is(err, ErrPresetExists)
}
