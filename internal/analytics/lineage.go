package analytics

import (
	"fmt"

	"github.com/modelyard/modelyard-backend/internal/types"
)

// LineageCategory tags a lineage node for presentation grouping.
type LineageCategory string

const (
	LineageData      LineageCategory = "data"
	LineageVersion   LineageCategory = "version"
	LineageTransform LineageCategory = "transform"
	LineageModel     LineageCategory = "model"
	LineageMetric    LineageCategory = "metric"
)

type LineageNode struct {
	Label    string          `json:"label"`
	Category LineageCategory `json:"category"`
	Detail   string          `json:"detail,omitempty"`
}

// AssembleLineage traces an experiment's provenance as the ordered chain
// data -> version -> transform -> model -> metric. dataset and model are the
// experiment's resolved references; pass nil for an unset reference. Nodes
// with no backing data are omitted rather than rendered empty.
func AssembleLineage(exp *types.Experiment, dataset *types.Dataset, model *types.Model) []LineageNode {
	if exp == nil {
		return nil
	}
	var nodes []LineageNode

	if dataset != nil {
		detail := ""
		if dataset.Format != nil {
			detail = *dataset.Format
		}
		nodes = append(nodes, LineageNode{Label: dataset.Name, Category: LineageData, Detail: detail})
		if dataset.Version != nil && *dataset.Version != "" {
			nodes = append(nodes, LineageNode{
				Label:    fmt.Sprintf("Versioned %s", *dataset.Version),
				Category: LineageVersion,
			})
		}
	}

	if len(exp.Hyperparameters) > 0 {
		nodes = append(nodes, LineageNode{
			Label:    "Feature Engineering",
			Category: LineageTransform,
			Detail:   fmt.Sprintf("%d parameters", len(exp.Hyperparameters)),
		})
	}

	if model != nil {
		detail := ""
		if model.Accuracy != nil {
			detail = fmt.Sprintf("%.1f%% acc", *model.Accuracy)
		}
		nodes = append(nodes, LineageNode{Label: model.Name, Category: LineageModel, Detail: detail})
	}

	if exp.Accuracy != nil || exp.F1Score != nil {
		detail := ""
		if exp.F1Score != nil {
			detail = fmt.Sprintf("F1: %.1f%%", *exp.F1Score)
		} else {
			detail = fmt.Sprintf("Accuracy: %.1f%%", *exp.Accuracy)
		}
		nodes = append(nodes, LineageNode{Label: "Eval Metrics", Category: LineageMetric, Detail: detail})
	}

	return nodes
}
