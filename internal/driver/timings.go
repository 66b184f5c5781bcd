package driver

import (
	"encoding/json"
	"fmt"

	"fsfront/internal/diag"
	"fsfront/internal/observ"
	"fsfront/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// ReportTimings emits an info diagnostic whose note carries the timer
// report as JSON, so machine-readable output formats get the timings too.
func ReportTimings(rep diag.Reporter, kind, path string, timer *observ.Timer) {
	if rep == nil || timer == nil {
		return
	}
	report := timer.Report()
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	diag.ReportInfo(rep, diag.BuildTimingInfo, source.StartupSpan, msg).
		WithNote(source.StartupSpan, string(data)).
		Emit()
}
