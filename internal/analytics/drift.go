package analytics

// Drift evaluation is a pure function of (baseline, series, threshold); it
// consumes externally computed metric observations and never fetches.

type DriftPoint struct {
	Label    string  `json:"label"`
	Observed float64 `json:"observed"`
}

type DriftEval struct {
	Label    string  `json:"label"`
	Observed float64 `json:"observed"`
	Drift    float64 `json:"drift"`
	Alert    bool    `json:"alert"`
}

type DriftResult struct {
	Points []DriftEval `json:"points"`
	// Alert is set when drift exceeds the threshold at any point of the
	// trailing window.
	Alert           bool `json:"alert"`
	FirstAlertIndex int  `json:"first_alert_index"`
}

// EvaluateDrift computes observed-minus-baseline at each point of a
// time-ordered series. window limits the alert condition to the trailing
// window points; window <= 0 or beyond the series means the whole series.
func EvaluateDrift(baseline float64, series []DriftPoint, threshold float64, window int) DriftResult {
	res := DriftResult{
		Points:          make([]DriftEval, len(series)),
		FirstAlertIndex: -1,
	}
	if window <= 0 || window > len(series) {
		window = len(series)
	}
	windowStart := len(series) - window

	for i, p := range series {
		drift := p.Observed - baseline
		alert := drift > threshold
		res.Points[i] = DriftEval{
			Label:    p.Label,
			Observed: p.Observed,
			Drift:    drift,
			Alert:    alert,
		}
		if alert && res.FirstAlertIndex < 0 {
			res.FirstAlertIndex = i
		}
		if alert && i >= windowStart {
			res.Alert = true
		}
	}
	return res
}
