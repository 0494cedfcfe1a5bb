package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"promptdeck/internal/domain"
	"promptdeck/internal/domain/models"
	"promptdeck/internal/domain/repositories"
)

// In-memory repository fakes. The tx manager fake snapshots both stores
// before the function runs and restores them on error, mimicking the
// all-or-nothing commit the real pgx transaction provides.

type fakeComponentRepo struct {
	mu         sync.Mutex
	components map[uuid.UUID]models.Component
}

func newFakeComponentRepo() *fakeComponentRepo {
	return &fakeComponentRepo{components: make(map[uuid.UUID]models.Component)}
}

func (r *fakeComponentRepo) Create(ctx context.Context, component *models.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	component.ID = uuid.New()
	component.UsageCount = 0
	r.components[component.ID] = *component
	return nil
}

func (r *fakeComponentRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	component, ok := r.components[id]
	if !ok || component.UserID != userID {
		return nil, fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	cp := component
	return &cp, nil
}

func (r *fakeComponentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID, userID string) (map[uuid.UUID]*models.Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uuid.UUID]*models.Component, len(ids))
	for _, id := range ids {
		if component, ok := r.components[id]; ok && component.UserID == userID {
			cp := component
			result[id] = &cp
		}
	}
	return result, nil
}

func (r *fakeComponentRepo) List(ctx context.Context, userID string, kind *models.ComponentKind) ([]models.Component, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Component
	for _, component := range r.components {
		if component.UserID != userID {
			continue
		}
		if kind != nil && component.Kind != *kind {
			continue
		}
		result = append(result, component)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	if result == nil {
		result = []models.Component{}
	}
	return result, nil
}

func (r *fakeComponentRepo) Update(ctx context.Context, component *models.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.components[component.ID]
	if !ok || existing.UserID != component.UserID {
		return fmt.Errorf("component %s: %w", component.ID, domain.ErrNotFound)
	}
	// Kind and usage count are not writable through Update
	component.Kind = existing.Kind
	component.UsageCount = existing.UsageCount
	r.components[component.ID] = *component
	return nil
}

func (r *fakeComponentRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	component, ok := r.components[id]
	if !ok || component.UserID != userID {
		return fmt.Errorf("component %s: %w", id, domain.ErrNotFound)
	}
	delete(r.components, id)
	return nil
}

func (r *fakeComponentRepo) IncrementUsage(ctx context.Context, ids []uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := 0
	for _, id := range ids {
		if component, ok := r.components[id]; ok && component.UserID == userID {
			component.UsageCount++
			r.components[id] = component
			matched++
		}
	}
	if matched != len(ids) {
		return fmt.Errorf("expected %d components, matched %d: %w", len(ids), matched, domain.ErrIntegrity)
	}
	return nil
}

func (r *fakeComponentRepo) snapshot() map[uuid.UUID]models.Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]models.Component, len(r.components))
	for id, component := range r.components {
		snap[id] = component
	}
	return snap
}

func (r *fakeComponentRepo) restore(snap map[uuid.UUID]models.Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components = snap
}

type fakePresetRepo struct {
	mu      sync.Mutex
	presets map[uuid.UUID]models.Preset
}

func newFakePresetRepo() *fakePresetRepo {
	return &fakePresetRepo{presets: make(map[uuid.UUID]models.Preset)}
}

func (r *fakePresetRepo) Create(ctx context.Context, preset *models.Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset.ID = uuid.New()
	preset.UsageCount = 0
	r.presets[preset.ID] = *preset
	return nil
}

func (r *fakePresetRepo) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset, ok := r.presets[id]
	if !ok || preset.UserID != userID {
		return nil, fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
	}
	cp := preset
	return &cp, nil
}

func (r *fakePresetRepo) List(ctx context.Context, userID string, sortOrder models.PresetSort) ([]models.Preset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Preset
	for _, preset := range r.presets {
		if preset.UserID == userID {
			result = append(result, preset)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch sortOrder {
		case models.PresetSortUsage:
			return a.UsageCount > b.UsageCount
		case models.PresetSortRecent:
			if a.LastUsedAt == nil {
				return false
			}
			if b.LastUsedAt == nil {
				return true
			}
			return a.LastUsedAt.After(*b.LastUsedAt)
		default:
			return strings.Compare(a.Name, b.Name) < 0
		}
	})
	if result == nil {
		result = []models.Preset{}
	}
	return result, nil
}

func (r *fakePresetRepo) Update(ctx context.Context, preset *models.Preset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.presets[preset.ID]
	if !ok || existing.UserID != preset.UserID {
		return fmt.Errorf("preset %s: %w", preset.ID, domain.ErrNotFound)
	}
	preset.UsageCount = existing.UsageCount
	preset.LastUsedAt = existing.LastUsedAt
	r.presets[preset.ID] = *preset
	return nil
}

func (r *fakePresetRepo) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset, ok := r.presets[id]
	if !ok || preset.UserID != userID {
		return fmt.Errorf("preset %s: %w", id, domain.ErrNotFound)
	}
	delete(r.presets, id)
	return nil
}

func (r *fakePresetRepo) ClearSlotReferences(ctx context.Context, componentID uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, preset := range r.presets {
		if preset.UserID != userID {
			continue
		}
		for _, kind := range models.Kinds {
			if slotID := preset.SlotID(kind); slotID != nil && *slotID == componentID {
				preset.SetSlotID(kind, nil)
			}
		}
		r.presets[id] = preset
	}
	return nil
}

func (r *fakePresetRepo) IncrementUsage(ctx context.Context, id uuid.UUID, userID string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	preset, ok := r.presets[id]
	if !ok || preset.UserID != userID {
		return fmt.Errorf("preset %s: %w", id, domain.ErrIntegrity)
	}
	preset.UsageCount++
	if preset.LastUsedAt == nil || usedAt.After(*preset.LastUsedAt) {
		preset.LastUsedAt = &usedAt
	}
	r.presets[id] = preset
	return nil
}

func (r *fakePresetRepo) snapshot() map[uuid.UUID]models.Preset {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uuid.UUID]models.Preset, len(r.presets))
	for id, preset := range r.presets {
		snap[id] = preset
	}
	return snap
}

func (r *fakePresetRepo) restore(snap map[uuid.UUID]models.Preset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets = snap
}

type fakeTxManager struct {
	componentRepo *fakeComponentRepo
	presetRepo    *fakePresetRepo
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	componentSnap := m.componentRepo.snapshot()
	presetSnap := m.presetRepo.snapshot()
	if err := fn(ctx); err != nil {
		m.componentRepo.restore(componentSnap)
		m.presetRepo.restore(presetSnap)
		return err
	}
	return nil
}
