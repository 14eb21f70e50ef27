package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/gateway"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/types"
)

// fakeGateway is an in-memory stand-in for the remote metadata store.
type fakeGateway struct {
	mu          sync.Mutex
	datasets    []*types.Dataset
	models      []*types.Model
	experiments []*types.Experiment
	profiles    map[uuid.UUID]*types.Profile

	listCalls  map[types.Kind]int
	failInsert error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		profiles:  map[uuid.UUID]*types.Profile{},
		listCalls: map[types.Kind]int{},
	}
}

func (f *fakeGateway) ListDatasets(ctx context.Context, owner uuid.UUID) ([]*types.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls[types.KindDataset]++
	var out []*types.Dataset
	for _, d := range f.datasets {
		if d.UserID == owner {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListModels(ctx context.Context, owner uuid.UUID) ([]*types.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls[types.KindModel]++
	var out []*types.Model
	for _, m := range f.models {
		if m.UserID == owner {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGateway) ListExperiments(ctx context.Context, owner uuid.UUID) ([]*types.Experiment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls[types.KindExperiment]++
	var out []*types.Experiment
	for _, e := range f.experiments {
		if e.UserID == owner {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeGateway) GetProfile(ctx context.Context, owner uuid.UUID) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls[types.KindProfile]++
	p, ok := f.profiles[owner]
	if !ok {
		return nil, apierr.NotFound(fmt.Errorf("profile for %s", owner))
	}
	return p, nil
}

func (f *fakeGateway) InsertDataset(ctx context.Context, owner uuid.UUID, row *types.Dataset) (*types.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return nil, f.failInsert
	}
	row.ID = uuid.New()
	row.UserID = owner
	row.CreatedAt = time.Now()
	f.datasets = append(f.datasets, row)
	return row, nil
}

func (f *fakeGateway) InsertModel(ctx context.Context, owner uuid.UUID, row *types.Model) (*types.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return nil, f.failInsert
	}
	row.ID = uuid.New()
	row.UserID = owner
	row.CreatedAt = time.Now()
	f.models = append(f.models, row)
	return row, nil
}

// InsertExperiment enforces referential scoping the way the real gateway
// does: references must resolve within the owner's rows.
func (f *fakeGateway) InsertExperiment(ctx context.Context, owner uuid.UUID, row *types.Experiment) (*types.Experiment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInsert != nil {
		return nil, f.failInsert
	}
	if row.DatasetID != nil && !f.ownsDataset(owner, *row.DatasetID) {
		return nil, apierr.Conflict("dataset_id", fmt.Errorf("dataset %s not found in caller scope", row.DatasetID))
	}
	if row.ModelID != nil && !f.ownsModel(owner, *row.ModelID) {
		return nil, apierr.Conflict("model_id", fmt.Errorf("model %s not found in caller scope", row.ModelID))
	}
	row.ID = uuid.New()
	row.UserID = owner
	row.CreatedAt = time.Now()
	f.experiments = append(f.experiments, row)
	return row, nil
}

func (f *fakeGateway) UpdateDataset(ctx context.Context, owner, id uuid.UUID, patch gateway.DatasetPatch) (*types.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.datasets {
		if d.ID == id && d.UserID == owner {
			if patch.Name != nil {
				d.Name = *patch.Name
			}
			if patch.Version != nil {
				d.Version = patch.Version
			}
			return d, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, owner uuid.UUID, patch gateway.ProfilePatch) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[owner]
	if !ok {
		p = &types.Profile{ID: uuid.New(), UserID: owner}
		f.profiles[owner] = p
	}
	if patch.FullName != nil {
		p.FullName = patch.FullName
	}
	if patch.Email != nil {
		p.Email = patch.Email
	}
	return p, nil
}

func (f *fakeGateway) ownsDataset(owner, id uuid.UUID) bool {
	for _, d := range f.datasets {
		if d.ID == id && d.UserID == owner {
			return true
		}
	}
	return false
}

func (f *fakeGateway) ownsModel(owner, id uuid.UUID) bool {
	for _, m := range f.models {
		if m.ID == id && m.UserID == owner {
			return true
		}
	}
	return false
}

func (f *fakeGateway) experimentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.experiments)
}

func (f *fakeGateway) datasetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.datasets)
}

// fakeBucket records uploads and can be told to fail.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failUp  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) Upload(ctx context.Context, key string, file io.Reader) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failUp != nil {
		return b.failUp
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.objects[key] = data
	return nil
}

func (b *fakeBucket) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) PublicURL(key string) string {
	return fmt.Sprintf("https://artifacts.test/%s", key)
}

func (b *fakeBucket) objectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
