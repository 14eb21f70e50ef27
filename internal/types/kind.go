package types

// Kind names an entity collection at the gateway boundary. The values match
// the remote store's collection names.
type Kind string

const (
	KindDataset    Kind = "datasets"
	KindModel      Kind = "models"
	KindExperiment Kind = "experiments"
	KindProfile    Kind = "profiles"
)

func (k Kind) Valid() bool {
	switch k {
	case KindDataset, KindModel, KindExperiment, KindProfile:
		return true
	}
	return false
}
