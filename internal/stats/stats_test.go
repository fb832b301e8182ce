package stats

import (
	"io"
	"testing"

	"github.com/jfwalther/screwdata/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	runs []*core.ScrewRun
	next int
}

func (f *fakeSource) Load() (*core.ScrewRun, error) {
	if f.next >= len(f.runs) {
		return nil, io.EOF
	}
	run := f.runs[f.next]
	f.next++
	return run, nil
}

func run(id, result string, samples int) *core.ScrewRun {
	times := make([]float64, samples)
	return &core.ScrewRun{
		ID:     id,
		Result: result,
		Steps: []core.ScrewStep{{
			Graph: map[string][]float64{core.TimeKey: times},
		}},
	}
}

func TestCollect(t *testing.T) {
	source := &fakeSource{runs: []*core.ScrewRun{
		run("DMC-1", "OK", 10),
		run("DMC-1", "NOK", 20),
		run("DMC-2", "OK", 30),
	}}

	report, err := Collect(source)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Runs)
	assert.Equal(t, 2, report.OK)
	assert.Equal(t, 1, report.NOK)
	assert.Equal(t, 2, report.RunsPerWorkpiece["DMC-1"])
	assert.Equal(t, []string{"OK", "NOK"}, report.LabelsPerWorkpiece["DMC-1"])
	assert.Equal(t, []string{"DMC-1", "DMC-2"}, report.Workpieces())
	assert.InDelta(t, 20.0, report.MeanLength, 1e-9)
	assert.InDelta(t, 200.0/3.0, report.VarLength, 1e-9)
}

func TestCollectEmpty(t *testing.T) {
	report, err := Collect(&fakeSource{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Runs)
	assert.Equal(t, 0.0, report.MeanLength)
	assert.NotEmpty(t, report.String())
}
