package types

import (
	"testing"
)

func f64(v float64) *float64 { return &v }

func TestDatasetValidate_RequiresName(t *testing.T) {
	d := &Dataset{}
	errs := d.Validate()
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "name" {
		t.Fatalf("expected name error, got %q", errs[0].Field)
	}
}

func TestDatasetValidate_QualityScoreRange(t *testing.T) {
	bad := 120
	d := &Dataset{Name: "churn.csv", QualityScore: &bad}
	errs := d.Validate()
	if len(errs) != 1 || errs[0].Field != "quality_score" {
		t.Fatalf("expected quality_score error, got %v", errs)
	}
	good := 88
	d.QualityScore = &good
	if errs := d.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestModelValidate_PercentagesAndStatus(t *testing.T) {
	m := &Model{Name: "CatBoost v2", Accuracy: f64(101), Status: "champion"}
	errs := m.Validate()
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	if !fields["accuracy"] || !fields["status"] {
		t.Fatalf("expected accuracy and status errors, got %v", errs)
	}

	m = &Model{Name: "CatBoost v2", Accuracy: f64(96.1), Status: ModelStatusReady}
	if errs := m.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestExperimentValidate_DurationAndStatus(t *testing.T) {
	neg := -1
	e := &Experiment{Name: "run-1", DurationSeconds: &neg, Status: "paused"}
	errs := e.Validate()
	fields := map[string]bool{}
	for _, fe := range errs {
		fields[fe.Field] = true
	}
	if !fields["duration_seconds"] || !fields["status"] {
		t.Fatalf("expected duration_seconds and status errors, got %v", errs)
	}
}

func TestParseModelStatus_RejectsUnknown(t *testing.T) {
	for _, ok := range []string{"training", "ready", "deployed", "retired"} {
		if _, err := ParseModelStatus(ok); err != nil {
			t.Fatalf("expected %q to parse: %v", ok, err)
		}
	}
	if _, err := ParseModelStatus("champion"); err == nil {
		t.Fatalf("expected unknown status to be rejected")
	}
}

func TestProfileValidate_Email(t *testing.T) {
	bad := "not-an-email"
	p := &Profile{Email: &bad}
	if errs := p.Validate(); len(errs) != 1 || errs[0].Field != "email" {
		t.Fatalf("expected email error, got %v", errs)
	}
	p = &Profile{}
	if errs := p.Validate(); len(errs) != 0 {
		t.Fatalf("profile has no required fields, got %v", errs)
	}
}
