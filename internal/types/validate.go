package types

import (
	"strings"

	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
)

// Validation runs before any network call. A non-empty result means the
// mutation is rejected client-side with code "validation".

func percentInRange(field string, v *float64, out []apierr.FieldError) []apierr.FieldError {
	if v != nil && (*v < 0 || *v > 100) {
		out = append(out, apierr.FieldError{Field: field, Message: "must be between 0 and 100"})
	}
	return out
}

func (d *Dataset) Validate() []apierr.FieldError {
	var errs []apierr.FieldError
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, apierr.FieldError{Field: "name", Message: "required"})
	}
	if d.SizeBytes != nil && *d.SizeBytes < 0 {
		errs = append(errs, apierr.FieldError{Field: "size_bytes", Message: "must be non-negative"})
	}
	if d.QualityScore != nil && (*d.QualityScore < 0 || *d.QualityScore > 100) {
		errs = append(errs, apierr.FieldError{Field: "quality_score", Message: "must be between 0 and 100"})
	}
	return errs
}

func (m *Model) Validate() []apierr.FieldError {
	var errs []apierr.FieldError
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, apierr.FieldError{Field: "name", Message: "required"})
	}
	errs = percentInRange("accuracy", m.Accuracy, errs)
	errs = percentInRange("f1_score", m.F1Score, errs)
	errs = percentInRange("roc_auc", m.ROCAUC, errs)
	if m.Status != "" {
		if _, err := ParseModelStatus(string(m.Status)); err != nil {
			errs = append(errs, apierr.FieldError{Field: "status", Message: err.Error()})
		}
	}
	return errs
}

func (e *Experiment) Validate() []apierr.FieldError {
	var errs []apierr.FieldError
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, apierr.FieldError{Field: "name", Message: "required"})
	}
	errs = percentInRange("accuracy", e.Accuracy, errs)
	errs = percentInRange("f1_score", e.F1Score, errs)
	if e.DurationSeconds != nil && *e.DurationSeconds < 0 {
		errs = append(errs, apierr.FieldError{Field: "duration_seconds", Message: "must be non-negative"})
	}
	if e.Status != "" {
		if _, err := ParseExperimentStatus(string(e.Status)); err != nil {
			errs = append(errs, apierr.FieldError{Field: "status", Message: err.Error()})
		}
	}
	return errs
}

func (p *Profile) Validate() []apierr.FieldError {
	var errs []apierr.FieldError
	if p.Email != nil && *p.Email != "" && !strings.Contains(*p.Email, "@") {
		errs = append(errs, apierr.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	return errs
}
