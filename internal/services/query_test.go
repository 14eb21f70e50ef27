package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/analytics"
	"github.com/modelyard/modelyard-backend/internal/cache"
	"github.com/modelyard/modelyard-backend/internal/identity"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/platform/logger"
	"github.com/modelyard/modelyard-backend/internal/types"
)

func newQueryFixture(t *testing.T) (*fakeGateway, *cache.Store, QueryService, identity.Identity) {
	t.Helper()
	gw := newFakeGateway()
	store := cache.NewStore(logger.NewNop())
	caller := identity.Identity{UserID: uuid.New()}
	return gw, store, NewQueryService(logger.NewNop(), gw, store), caller
}

func TestQueryDatasetsServedFromCache(t *testing.T) {
	gw, _, svc, caller := newQueryFixture(t)
	gw.datasets = append(gw.datasets, &types.Dataset{ID: uuid.New(), UserID: caller.UserID, Name: "churn"})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		rows, err := svc.Datasets(ctx, caller)
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if len(rows) != 1 {
			t.Fatalf("read %d: expected 1 dataset, got %d", i, len(rows))
		}
	}
	if got := gw.listCalls[types.KindDataset]; got != 1 {
		t.Fatalf("repeated reads should hit the gateway once, got %d fetches", got)
	}
}

func TestQueryModelsStaleServesInvalidatedSnapshot(t *testing.T) {
	gw, store, svc, caller := newQueryFixture(t)
	gw.models = append(gw.models, &types.Model{ID: uuid.New(), UserID: caller.UserID, Name: "xgb"})

	ctx := context.Background()
	rows, stale, err := svc.ModelsStale(ctx, caller)
	if err != nil || stale || len(rows) != 1 {
		t.Fatalf("cold read: rows=%d stale=%v err=%v", len(rows), stale, err)
	}

	key := cache.Key{Kind: types.KindModel, Owner: caller.UserID}
	refreshed := make(chan cache.Event, 4)
	token := store.Subscribe(key, func(ev cache.Event) {
		if ev.Reason == cache.ReasonRefreshed {
			refreshed <- ev
		}
	})
	defer store.Unsubscribe(key, token)

	gw.mu.Lock()
	gw.models = append(gw.models, &types.Model{ID: uuid.New(), UserID: caller.UserID, Name: "logreg"})
	gw.mu.Unlock()
	store.Invalidate(key)

	// The previous snapshot is served immediately, flagged stale, while one
	// background refresh runs.
	rows, stale, err = svc.ModelsStale(ctx, caller)
	if err != nil || !stale || len(rows) != 1 {
		t.Fatalf("stale read: rows=%d stale=%v err=%v", len(rows), stale, err)
	}

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatalf("background revalidation never completed")
	}
	rows, stale, err = svc.ModelsStale(ctx, caller)
	if err != nil || stale || len(rows) != 2 {
		t.Fatalf("refreshed read: rows=%d stale=%v err=%v", len(rows), stale, err)
	}
}

func TestQueryProfileScopedToCaller(t *testing.T) {
	gw, _, svc, caller := newQueryFixture(t)
	name := "Dana Ops"
	gw.profiles[caller.UserID] = &types.Profile{ID: uuid.New(), UserID: caller.UserID, FullName: &name}

	p, err := svc.Profile(context.Background(), caller)
	if err != nil {
		t.Fatalf("profile read failed: %v", err)
	}
	if p.FullName == nil || *p.FullName != name {
		t.Fatalf("expected the caller's profile, got %+v", p)
	}

	// A different caller reads their own empty scope, never the first
	// caller's row.
	other := identity.Identity{UserID: uuid.New()}
	if _, err := svc.Profile(context.Background(), other); apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("foreign caller should see an empty scope, got %v", err)
	}

	// An anonymous caller is refused before any fetch.
	if _, err := svc.Profile(context.Background(), identity.Identity{}); apierr.CodeOf(err) != apierr.CodeUnauthorized {
		t.Fatalf("anonymous read should be unauthorized, got %v", err)
	}
}

func TestQueryLineageResolvesReferences(t *testing.T) {
	gw, _, svc, caller := newQueryFixture(t)

	version := "v3"
	acc := 94.2
	dataset := &types.Dataset{ID: uuid.New(), UserID: caller.UserID, Name: "churn", Version: &version, CreatedAt: time.Now()}
	model := &types.Model{ID: uuid.New(), UserID: caller.UserID, Name: "xgb-churn", CreatedAt: time.Now()}
	exp := &types.Experiment{
		ID:        uuid.New(),
		UserID:    caller.UserID,
		Name:      "churn-run-7",
		DatasetID: &dataset.ID,
		ModelID:   &model.ID,
		Accuracy:  &acc,
		CreatedAt: time.Now(),
	}
	gw.datasets = append(gw.datasets, dataset)
	gw.models = append(gw.models, model)
	gw.experiments = append(gw.experiments, exp)

	nodes, err := svc.Lineage(context.Background(), caller, exp.ID)
	if err != nil {
		t.Fatalf("lineage failed: %v", err)
	}
	var categories []analytics.LineageCategory
	for _, n := range nodes {
		categories = append(categories, n.Category)
	}
	want := []analytics.LineageCategory{
		analytics.LineageData,
		analytics.LineageVersion,
		analytics.LineageModel,
		analytics.LineageMetric,
	}
	if len(categories) != len(want) {
		t.Fatalf("expected %d nodes, got %d (%v)", len(want), len(categories), categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("node %d: expected %s, got %s", i, want[i], categories[i])
		}
	}
}

func TestQueryLineageUnknownExperiment(t *testing.T) {
	_, _, svc, caller := newQueryFixture(t)

	_, err := svc.Lineage(context.Background(), caller, uuid.New())
	if apierr.CodeOf(err) != apierr.CodeNotFound {
		t.Fatalf("expected not_found for unknown experiment, got %v", err)
	}
}
