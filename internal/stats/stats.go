package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jfwalther/screwdata/internal/loader"
	"github.com/jfwalther/screwdata/pkg/core"
	"github.com/pkg/errors"
)

// Report summarizes a raw dataset without preprocessing it: label counts,
// per-workpiece (DMC) run counts and the length distribution of the raw
// time series.
type Report struct {
	Runs int
	OK   int
	NOK  int

	// RunsPerWorkpiece counts tightening cycles per data matrix code.
	RunsPerWorkpiece map[string]int
	// LabelsPerWorkpiece keeps the label history per data matrix code, in
	// load order.
	LabelsPerWorkpiece map[string][]string

	MeanLength float64
	VarLength  float64
}

// Collect drains a source and aggregates the report. Series length is the
// total time sample count over all steps of a run.
func Collect(source loader.Source) (*Report, error) {
	report := &Report{
		RunsPerWorkpiece:   make(map[string]int),
		LabelsPerWorkpiece: make(map[string][]string),
	}

	var lengths []int
	var run *core.ScrewRun
	var err error
	for run, err = source.Load(); err == nil; run, err = source.Load() {
		report.Runs++
		if run.Result == core.ResultNOK {
			report.NOK++
		} else {
			report.OK++
		}
		report.RunsPerWorkpiece[run.ID]++
		report.LabelsPerWorkpiece[run.ID] = append(report.LabelsPerWorkpiece[run.ID], run.Result)

		length := 0
		for _, step := range run.Steps {
			length += len(step.Graph[core.TimeKey])
		}
		lengths = append(lengths, length)
	}

	if err != io.EOF {
		return nil, errors.Wrap(err, "collecting dataset statistics")
	}

	report.MeanLength, report.VarLength = meanVar(lengths)
	return report, nil
}

func meanVar(lengths []int) (mean, variance float64) {
	if len(lengths) == 0 {
		return 0, 0
	}
	sum := 0
	for _, l := range lengths {
		sum += l
	}
	mean = float64(sum) / float64(len(lengths))
	for _, l := range lengths {
		d := float64(l) - mean
		variance += d * d
	}
	variance /= float64(len(lengths))
	return mean, variance
}

// Workpieces returns the data matrix codes in deterministic order.
func (r *Report) Workpieces() []string {
	out := make([]string, 0, len(r.RunsPerWorkpiece))
	for dmc := range r.RunsPerWorkpiece {
		out = append(out, dmc)
	}
	sort.Strings(out)
	return out
}

func (r *Report) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "runs: %d (OK: %d, NOK: %d)\n", r.Runs, r.OK, r.NOK)
	fmt.Fprintf(b, "workpieces: %d\n", len(r.RunsPerWorkpiece))
	fmt.Fprintf(b, "series length: mean %.2f, variance %.2f\n", r.MeanLength, r.VarLength)
	for _, dmc := range r.Workpieces() {
		fmt.Fprintf(b, "  %s: %d runs [%s]\n",
			dmc, r.RunsPerWorkpiece[dmc], strings.Join(r.LabelsPerWorkpiece[dmc], " "))
	}
	return b.String()
}
