// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/katalvlaran/gwsur/align"
	"github.com/katalvlaran/gwsur/builder"
	"github.com/katalvlaran/gwsur/ledger"
	"github.com/katalvlaran/gwsur/metrics"
	"github.com/katalvlaran/gwsur/pipeline"
	"github.com/katalvlaran/gwsur/server"
	"github.com/katalvlaran/gwsur/store"
	"github.com/katalvlaran/gwsur/surrogate"
)

func (e *env) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func (e *env) openStore() (*store.Store, error) {
	return store.Open(e.cfg.StorePath)
}

// withSurrogate opens the store, loads name and hands it to fn.
func (e *env) withSurrogate(name string, fn func(*surrogate.Surrogate) error) error {
	if name == "" {
		return errors.New("-name is required")
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sur, err := st.Get(name)
	if err != nil {
		return err
	}

	return fn(sur)
}

func cmdBuild(ctx context.Context, e *env, args []string) error {
	fs := e.flags("build")
	name := fs.String("name", pipeline.DefaultName, "surrogate name")
	lo := fs.Float64("lo", 1, "lowest mass ratio")
	hi := fs.Float64("hi", 2, "highest mass ratio")
	n := fs.Int("n", 201, "training waveforms")
	seed := fs.Int64("seed", 1, "noise seed")
	noise := fs.Float64("noise", 0, "Gaussian noise sigma")
	trim := fs.Int("trim", 0, "trailing samples to drop after alignment")
	partial := fs.Bool("partial", false, "keep a partial basis when the cap is reached")
	kind := fs.String("kind", "", "waveform_basis or amp_phase_basis (default from GWSUR_KIND)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *noise < 0 {
		return fmt.Errorf("-noise %g: must be >= 0", *noise)
	}
	cfg := *e.cfg
	if *kind != "" {
		cfg.Kind = *kind
	}

	raw, err := builder.BuildTrainingSet(*lo, *hi, *n, *seed, builder.WithNoise(*noise))
	if err != nil {
		return err
	}
	pc, err := cfg.Pipeline(*name)
	if err != nil {
		return err
	}
	pc.Logger = e.log
	pc.AllowPartial = *partial
	if *trim > 0 {
		pc.Align.Trim = align.TrimTrailing
		pc.Align.TrimCount = *trim
	}

	sur, sum, err := pipeline.Build(ctx, raw, pc)
	if err != nil {
		return err
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Put(*name, sur); err != nil {
		return err
	}

	lg, err := ledger.Open(e.cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer lg.Close()
	entry, err := ledger.FromSummary(sum)
	if err != nil {
		return err
	}
	runID, err := lg.Record(ctx, entry)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "%-22s = %s\n", "run_id", runID)
	return sum.WriteReport(e.stdout)
}

func cmdEval(_ context.Context, e *env, args []string) error {
	fs := e.flags("eval")
	name := fs.String("name", pipeline.DefaultName, "surrogate name")
	q := fs.Float64("q", 1, "mass ratio")
	phi := fs.Float64("phi", 0, "phase at the peak (used with -phase)")
	phase := fs.Bool("phase", false, "rotate so the phase at the peak equals -phi")
	mass := fs.Float64("mass", 0, "total mass in solar masses (with -dist)")
	dist := fs.Float64("dist", 0, "distance in Mpc (with -mass)")
	fLow := fs.Float64("flow", 0, "warn when the waveform starts above this frequency")
	extrapolate := fs.Bool("extrapolate", false, "allow q outside the training interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	for flagName, v := range map[string]float64{"q": *q, "phi": *phi, "mass": *mass, "dist": *dist, "flow": *fLow} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("-%s %g: not a finite number", flagName, v)
		}
	}

	var opts []surrogate.EvalOption
	if *phase {
		opts = append(opts, surrogate.WithPhaseRef(*phi))
	}
	if *mass != 0 || *dist != 0 {
		if !(*mass > 0) || !(*dist > 0) {
			return fmt.Errorf("-mass %g -dist %g: both must be positive", *mass, *dist)
		}
		opts = append(opts, surrogate.WithPhysicalUnits(*mass, *dist))
	}
	if *fLow > 0 {
		opts = append(opts, surrogate.WithLowFrequency(*fLow))
	}
	if *extrapolate {
		opts = append(opts, surrogate.WithRange(surrogate.Extrapolate))
	}

	return e.withSurrogate(*name, func(sur *surrogate.Surrogate) error {
		res, err := sur.Evaluate(*q, opts...)
		if err != nil {
			return err
		}
		hp, hc := res.Polarizations()
		w := csv.NewWriter(e.stdout)
		if err := w.Write([]string{"t", "hp", "hc"}); err != nil {
			return err
		}
		for i, t := range res.Times {
			row := []string{
				strconv.FormatFloat(t, 'g', -1, 64),
				strconv.FormatFloat(hp[i], 'g', -1, 64),
				strconv.FormatFloat(hc[i], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		w.Flush()

		return w.Error()
	})
}

func cmdTimer(_ context.Context, e *env, args []string) error {
	fs := e.flags("timer")
	name := fs.String("name", pipeline.DefaultName, "surrogate name")
	n := fs.Int("n", 1000, "evaluations")
	seed := fs.Int64("seed", 1, "parameter seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return e.withSurrogate(*name, func(sur *surrogate.Surrogate) error {
		st, err := sur.Timer(*n, *seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "evaluations = %d\nmean = %s\nmin = %s\nmax = %s\n", st.N, st.Mean, st.Min, st.Max)

		return nil
	})
}

func cmdExport(_ context.Context, e *env, args []string) error {
	fs := e.flags("export")
	name := fs.String("name", pipeline.DefaultName, "surrogate name")
	out := fs.String("out", "", "output file (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return e.withSurrogate(*name, func(sur *surrogate.Surrogate) error {
		if *out == "" {
			return sur.WriteJSON(e.stdout)
		}
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := sur.WriteJSON(f); err != nil {
			f.Close()
			return err
		}

		return f.Close()
	})
}

func cmdImport(_ context.Context, e *env, args []string) error {
	fs := e.flags("import")
	name := fs.String("name", "", "name to store the surrogate under")
	in := fs.String("in", "", "JSON file written by export")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *in == "" {
		return errors.New("-name and -in are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	sur, err := surrogate.ReadJSON(f)
	if err != nil {
		return err
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return st.Put(*name, sur)
}

func cmdDiff(_ context.Context, e *env, args []string) error {
	fs := e.flags("diff")
	a := fs.String("a", "", "first surrogate")
	b := fs.String("b", "", "second surrogate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *a == "" || *b == "" {
		return errors.New("-a and -b are required")
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sa, err := st.Get(*a)
	if err != nil {
		return err
	}
	sb, err := st.Get(*b)
	if err != nil {
		return err
	}

	diffs := surrogate.Diff(sa, sb)
	if len(diffs) == 0 {
		fmt.Fprintln(e.stdout, "identical")
		return nil
	}
	for _, d := range diffs {
		fmt.Fprintln(e.stdout, d)
	}

	return fmt.Errorf("%d differences", len(diffs))
}

func cmdHistory(ctx context.Context, e *env, args []string) error {
	fs := e.flags("history")
	name := fs.String("name", "", "only runs of this surrogate")
	n := fs.Int("n", 10, "runs to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	lg, err := ledger.Open(e.cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer lg.Close()
	entries, err := lg.Recent(ctx, *name, *n)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tNAME\tCREATED\tWAVEFORMS\tBASIS\tRESIDUAL\tTRAIN_ERR\tTOOK")
	for _, en := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.2e\t%.2e\t%s\n",
			en.RunID, en.Name, en.Created.Format(time.RFC3339), en.TrainingCount,
			en.BasisSize, en.FinalResidual, en.MaxTrainingError, en.Duration.Round(time.Millisecond))
	}

	return tw.Flush()
}

func cmdList(_ context.Context, e *env, _ []string) error {
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	names, err := st.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(e.stdout, n)
	}

	return nil
}

func cmdServe(ctx context.Context, e *env, args []string) error {
	fs := e.flags("serve")
	addr := fs.String("addr", e.cfg.HTTPAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           server.New(st, metrics.New("gwsur"), e.log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		e.log.Info("listening", slog.String("addr", *addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		e.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
