package analytics

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/modelyard/modelyard-backend/internal/types"
)

func ps(s string) *string { return &s }

func TestAssembleLineage_FullChain(t *testing.T) {
	dsID, mID := uuid.New(), uuid.New()
	exp := &types.Experiment{
		Name:      "credit-risk-run",
		DatasetID: &dsID,
		ModelID:   &mID,
		F1Score:   pf(95.3),
		Hyperparameters: datatypes.JSONMap{
			"learning_rate": 0.05,
			"max_depth":     8,
		},
	}
	ds := &types.Dataset{ID: dsID, Name: "financial_raw.csv", Format: ps("csv"), Version: ps("v2.3")}
	m := &types.Model{ID: mID, Name: "CatBoost v2", Accuracy: pf(96.1)}

	nodes := AssembleLineage(exp, ds, m)
	wantCategories := []LineageCategory{LineageData, LineageVersion, LineageTransform, LineageModel, LineageMetric}
	if len(nodes) != len(wantCategories) {
		t.Fatalf("expected %d nodes, got %d: %+v", len(wantCategories), len(nodes), nodes)
	}
	for i, want := range wantCategories {
		if nodes[i].Category != want {
			t.Fatalf("node %d: expected category %q, got %q", i, want, nodes[i].Category)
		}
	}
	if nodes[0].Label != "financial_raw.csv" {
		t.Fatalf("data node label: %q", nodes[0].Label)
	}
	if nodes[3].Detail != "96.1% acc" {
		t.Fatalf("model node detail: %q", nodes[3].Detail)
	}
}

func TestAssembleLineage_OmitsNodesWithoutBackingData(t *testing.T) {
	exp := &types.Experiment{Name: "bare-run"}
	nodes := AssembleLineage(exp, nil, nil)
	if len(nodes) != 0 {
		t.Fatalf("bare experiment must produce no nodes, got %+v", nodes)
	}

	// Dataset without a version label: version marker omitted, chain order kept.
	ds := &types.Dataset{Name: "raw.parquet"}
	m := &types.Model{Name: "XGBoost v3"}
	nodes = AssembleLineage(exp, ds, m)
	wantCategories := []LineageCategory{LineageData, LineageModel}
	if len(nodes) != 2 || nodes[0].Category != wantCategories[0] || nodes[1].Category != wantCategories[1] {
		t.Fatalf("expected data and model nodes only, got %+v", nodes)
	}
}

func TestAssembleLineage_NilExperiment(t *testing.T) {
	if nodes := AssembleLineage(nil, nil, nil); nodes != nil {
		t.Fatalf("expected nil, got %+v", nodes)
	}
}
