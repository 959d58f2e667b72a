// SPDX-License-Identifier: MIT

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/gwsur/metrics"
	"github.com/katalvlaran/gwsur/store"
	"github.com/katalvlaran/gwsur/surrogate"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	names, err := s.catalog.List()
	if err != nil {
		s.logger.Error("list surrogates", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"surrogates": names})
}

// load fetches the {name} surrogate, answering the request itself on failure.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (string, *surrogate.Surrogate, bool) {
	name := mux.Vars(r)["name"]
	sur, err := s.catalog.Get(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
		return name, nil, false
	case errors.Is(err, store.ErrBadName):
		writeError(w, http.StatusBadRequest, err)
		return name, nil, false
	case err != nil:
		s.logger.Error("load surrogate", slog.String("name", name), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err)
		return name, nil, false
	}

	return name, sur, true
}

// Info describes a stored surrogate.
type Info struct {
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Created       time.Time `json:"created"`
	Tolerance     float64   `json:"tolerance"`
	TrainingCount int       `json:"training_count"`
	ParamRange    []float64 `json:"param_range"`
	GridStart     float64   `json:"grid_start"`
	GridStep      float64   `json:"grid_step"`
	GridLen       int       `json:"grid_len"`
	BasisSize     int       `json:"basis_size"`
	InnerProduct  string    `json:"inner_product"`
	Lebesgue      float64   `json:"lebesgue"`
	TrainingError float64   `json:"training_error"`
	RangePolicy   string    `json:"range_policy"`
	Selector      string    `json:"selector"`
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	name, sur, ok := s.load(w, r)
	if !ok {
		return
	}
	meta := sur.Metadata()
	lo, hi := sur.Range()
	g := sur.Grid()
	writeJSON(w, http.StatusOK, Info{
		Name:          name,
		Kind:          sur.Kind().String(),
		Created:       meta.Created,
		Tolerance:     meta.Tolerance,
		TrainingCount: meta.TrainingCount,
		ParamRange:    []float64{lo, hi},
		GridStart:     g.Start,
		GridStep:      g.Step,
		GridLen:       g.Len,
		BasisSize:     sur.Size(),
		InnerProduct:  sur.Basis().Product.Name(),
		Lebesgue:      sur.Lebesgue(),
		TrainingError: sur.TrainingError(),
		RangePolicy:   sur.Policy().String(),
		Selector:      sur.Model().Selector,
	})
}

// Evaluation is the JSON body of a successful evaluate call.
type Evaluation struct {
	Param          float64   `json:"q"`
	Physical       bool      `json:"physical"`
	Times          []float64 `json:"times"`
	HPlus          []float64 `json:"hp"`
	HCross         []float64 `json:"hc"`
	StartFrequency float64   `json:"start_frequency"`
	Warnings       []string  `json:"warnings,omitempty"`
	TookNS         int64     `json:"took_ns"`
}

// queryFloat parses an optional float query value.
func queryFloat(r *http.Request, key string) (float64, bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("query %s=%q: not a finite number", key, raw)
	}
	return v, true, nil
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	name, sur, ok := s.load(w, r)
	if !ok {
		return
	}

	q, has, err := queryFloat(r, "q")
	if err == nil && !has {
		err = errors.New("query q is required")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts, err := evalOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	res, err := sur.Evaluate(q, opts...)
	switch {
	case errors.Is(err, surrogate.ErrOutOfRange):
		s.metrics.CountEvaluation(name, metrics.OutcomeOutOfRange)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		s.metrics.CountEvaluation(name, metrics.OutcomeError)
		span.RecordError(err)
		s.logger.Error("evaluate", slog.String("name", name), slog.Float64("q", q), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.metrics.ObserveEvaluation(name, res.Timing.Fit, res.Timing.Assemble, res.Timing.Total)

	hp, hc := res.Polarizations()
	writeJSON(w, http.StatusOK, Evaluation{
		Param:          res.Param,
		Physical:       res.Physical,
		Times:          res.Times,
		HPlus:          hp,
		HCross:         hc,
		StartFrequency: res.StartFrequency,
		Warnings:       res.Warnings,
		TookNS:         res.Timing.Total.Nanoseconds(),
	})
}

// evalOptions maps phi_ref, mass+dist, f_low and extrapolate to options.
func evalOptions(r *http.Request) ([]surrogate.EvalOption, error) {
	var opts []surrogate.EvalOption

	if phi, ok, err := queryFloat(r, "phi_ref"); err != nil {
		return nil, err
	} else if ok {
		opts = append(opts, surrogate.WithPhaseRef(phi))
	}

	mass, hasMass, err := queryFloat(r, "mass")
	if err != nil {
		return nil, err
	}
	dist, hasDist, err := queryFloat(r, "dist")
	if err != nil {
		return nil, err
	}
	if hasMass != hasDist {
		return nil, errors.New("query mass and dist must be given together")
	}
	if hasMass {
		if !(mass > 0) || !(dist > 0) {
			return nil, fmt.Errorf("mass=%g dist=%g: both must be positive", mass, dist)
		}
		opts = append(opts, surrogate.WithPhysicalUnits(mass, dist))
	}

	if f, ok, err := queryFloat(r, "f_low"); err != nil {
		return nil, err
	} else if ok {
		if !(f > 0) {
			return nil, fmt.Errorf("f_low=%g: must be positive", f)
		}
		opts = append(opts, surrogate.WithLowFrequency(f))
	}

	if raw := r.URL.Query().Get("extrapolate"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("query extrapolate=%q: not a bool", raw)
		}
		if on {
			opts = append(opts, surrogate.WithRange(surrogate.Extrapolate))
		}
	}

	return opts, nil
}
