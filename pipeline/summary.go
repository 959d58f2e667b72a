// SPDX-License-Identifier: MIT

package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/katalvlaran/gwsur/waveform"
)

// StageTiming is the wall-clock time of one build stage.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// PartSummary describes one basis of the surrogate: the whole waveform, or
// its amplitude or phase.
type PartSummary struct {
	Name              string
	BasisSize         int
	Converged         bool
	Residuals         []float64 // max greedy residual after each element
	SelectedParams    []float64 // greedy picks, in order
	Lebesgue          float64
	AmpDegrees        []int
	PhaseDegrees      []int
	NegativeAmplitude []int // nodes whose amplitude fit dips below zero
}

// FinalResidual is the greedy residual of the part's basis.
func (p PartSummary) FinalResidual() float64 {
	if len(p.Residuals) == 0 {
		return 0
	}
	return p.Residuals[len(p.Residuals)-1]
}

// Summary reports what a build produced and how well it reproduces its
// training set. BasisSize, Converged and Lebesgue aggregate Parts: total
// size, every part converged, largest constant.
type Summary struct {
	Name              string
	Kind              string
	TrainingCount     int
	ParamLo, ParamHi  float64
	Grid              waveform.Grid
	Tolerance         float64
	InnerProduct      string
	BasisSize         int
	Converged         bool
	Lebesgue          float64
	Parts             []PartSummary
	Selector          string
	TrainingErrors    []float64 // relative L2 error per training waveform, input order
	MaxTrainingError  float64
	MeanTrainingError float64
	WorstParam        float64
	Stages            []StageTiming
	Warnings          []string
	Created           time.Time
}

// FinalResidual is the largest greedy residual over the parts.
func (s *Summary) FinalResidual() float64 {
	var r float64
	for _, p := range s.Parts {
		r = max(r, p.FinalResidual())
	}
	return r
}

// Total is the summed duration of every stage.
func (s *Summary) Total() time.Duration {
	var d time.Duration
	for _, st := range s.Stages {
		d += st.Duration
	}
	return d
}

// WriteReport renders the summary as key = value lines. The format is for
// people; nothing parses it back.
func (s *Summary) WriteReport(w io.Writer) error {
	bw := bufio.NewWriter(w)
	kv := func(key string, format string, args ...any) {
		fmt.Fprintf(bw, "%-22s = %s\n", key, fmt.Sprintf(format, args...))
	}

	kv("name", "%s", s.Name)
	kv("kind", "%s", s.Kind)
	kv("created", "%s", s.Created.UTC().Format(time.RFC3339))
	kv("training_count", "%d", s.TrainingCount)
	kv("param_range", "[%g, %g]", s.ParamLo, s.ParamHi)
	kv("grid", "start=%g step=%g len=%d", s.Grid.Start, s.Grid.Step, s.Grid.Len)
	kv("inner_product", "%s", s.InnerProduct)
	kv("tolerance", "%.3e", s.Tolerance)
	kv("basis_size", "%d", s.BasisSize)
	kv("converged", "%t", s.Converged)
	kv("final_residual", "%.3e", s.FinalResidual())
	kv("lebesgue", "%.4g", s.Lebesgue)
	kv("selector", "%s", s.Selector)
	for _, p := range s.Parts {
		prefix := ""
		if len(s.Parts) > 1 {
			prefix = p.Name + "."
			kv(prefix+"basis_size", "%d", p.BasisSize)
			kv(prefix+"lebesgue", "%.4g", p.Lebesgue)
		}
		kv(prefix+"residuals", "%s", joinFloats(p.Residuals, "%.3e"))
		kv(prefix+"greedy_params", "%s", joinFloats(p.SelectedParams, "%g"))
		kv(prefix+"amp_degrees", "%s", joinInts(p.AmpDegrees))
		kv(prefix+"phase_degrees", "%s", joinInts(p.PhaseDegrees))
		kv(prefix+"negative_amp_nodes", "%s", joinInts(p.NegativeAmplitude))
	}
	kv("max_training_error", "%.3e (q=%g)", s.MaxTrainingError, s.WorstParam)
	kv("mean_training_error", "%.3e", s.MeanTrainingError)
	for _, st := range s.Stages {
		kv("stage."+st.Stage, "%s", st.Duration)
	}
	kv("total", "%s", s.Total())
	for i, msg := range s.Warnings {
		kv(fmt.Sprintf("warning.%d", i), "%s", msg)
	}

	return bw.Flush()
}

func joinFloats(x []float64, format string) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprintf(format, v)
	}
	return strings.Join(parts, " ")
}

func joinInts(x []int) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
