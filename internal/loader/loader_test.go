package loader

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jfwalther/screwdata/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepObject(times, torques []float64) map[string]any {
	return map[string]any{
		"name": "Tightening",
		"graph": map[string]any{
			"time values":   times,
			"torque values": torques,
		},
	}
}

func writeRun(t *testing.T, dir, name, id, result string, steps ...map[string]any) {
	t.Helper()
	run := map[string]any{
		"id code":          id,
		"result":           result,
		"date":             "2022-09-01 10:00:00",
		"tightening steps": steps,
	}
	raw, err := json.Marshal(run)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), raw, 0644))
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func drain(t *testing.T, source Source) []*core.ScrewRun {
	t.Helper()
	runs := make([]*core.ScrewRun, 0)
	var run *core.ScrewRun
	var err error
	for run, err = source.Load(); err == nil; run, err = source.Load() {
		runs = append(runs, run)
	}
	require.Equal(t, io.EOF, err)
	return runs
}

func TestDirectorySource(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "b.json", "DMC-2", "NOK", stepObject([]float64{0, 0.1}, []float64{1, 2}))
	writeRun(t, dir, "a.json", "DMC-1", "OK", stepObject([]float64{0, 0.1}, []float64{3, 4}))
	writeRaw(t, dir, "notes.txt", "not a run")

	source, err := NewDirectorySource(dir, false, nil)
	require.NoError(t, err)

	runs := drain(t, source)
	require.Equal(t, 2, len(runs))
	// lexical file order, not write order
	assert.Equal(t, "DMC-1", runs[0].ID)
	assert.Equal(t, "DMC-2", runs[1].ID)
	assert.Equal(t, "NOK", runs[1].Result)
	assert.Equal(t, []float64{1, 2}, runs[1].Steps[0].Graph["torque values"])
}

func TestDirectorySourceMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "a.json", "DMC-1", "OK", stepObject([]float64{0, 0.1}, []float64{1, 2}))
	writeRaw(t, dir, "broken.json", "{not json")

	source, err := NewDirectorySource(dir, false, nil)
	require.NoError(t, err)

	_, err = source.Load()
	loadErr := &core.LoadError{}
	assert.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken.json", loadErr.File)
}

func TestDirectorySourceSkipInvalid(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "a.json", "DMC-1", "OK", stepObject([]float64{0, 0.1}, []float64{1, 2}))
	writeRaw(t, dir, "broken.json", "{not json")
	writeRun(t, dir, "c.json", "DMC-3", "NOK", stepObject([]float64{0, 0.1}, []float64{3, 4}))

	source, err := NewDirectorySource(dir, true, nil)
	require.NoError(t, err)

	runs := drain(t, source)
	require.Equal(t, 2, len(runs))
	assert.Equal(t, "DMC-1", runs[0].ID)
	assert.Equal(t, "DMC-3", runs[1].ID)
}

func TestDirectorySourceMissingFields(t *testing.T) {
	cases := []struct {
		name    string
		content string
		field   string
	}{
		{"no id", `{"result":"OK","tightening steps":[]}`, "id code"},
		{"no result", `{"id code":"DMC-1","tightening steps":[]}`, "result"},
		{"no steps", `{"id code":"DMC-1","result":"OK"}`, "tightening steps"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writeRaw(t, dir, "run.json", c.content)

			source, err := NewDirectorySource(dir, false, nil)
			require.NoError(t, err)

			_, err = source.Load()
			schemaErr := &core.SchemaError{}
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, c.field, schemaErr.Field)
			assert.Equal(t, "run.json", schemaErr.File)
		})
	}
}

func TestDirectorySourceMissingDirectory(t *testing.T) {
	_, err := NewDirectorySource("/does/not/exist", false, nil)
	assert.Error(t, err)
}

func TestSourceReader(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "a.json", "DMC-1", "OK",
		stepObject([]float64{0, 0.1}, []float64{1, 2}),
		stepObject([]float64{0, 0.1, 0.2}, []float64{3, 4, 5}))

	source, err := NewDirectorySource(dir, false, nil)
	require.NoError(t, err)

	dataset, err := NewSourceReader(source, Options{}).Read()
	require.NoError(t, err)
	require.Equal(t, 1, len(dataset))

	// steps concatenate
	assert.Equal(t, []float64{0, 0.1, 0, 0.1, 0.2}, dataset[0].Time)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, dataset[0].Values[0])
	assert.Equal(t, "OK", dataset[0].Label)
	assert.Equal(t, []string{core.ChannelTorque}, dataset[0].Channels)
}

func TestSourceReaderStepSelection(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "a.json", "DMC-1", "OK",
		stepObject([]float64{0, 0.1}, []float64{1, 2}),
		stepObject([]float64{0, 0.1}, []float64{3, 4}))

	source, err := NewDirectorySource(dir, false, nil)
	require.NoError(t, err)

	dataset, err := NewSourceReader(source, Options{Steps: []int{2, 7}}).Read()
	require.NoError(t, err)
	require.Equal(t, 1, len(dataset))

	// step 7 does not exist and is ignored
	assert.Equal(t, []float64{3, 4}, dataset[0].Values[0])
}

func TestSourceReaderCycleSelection(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "a.json", "DMC-1", "OK", stepObject([]float64{0, 0.1}, []float64{1, 1}))
	writeRun(t, dir, "b.json", "DMC-1", "NOK", stepObject([]float64{0, 0.1}, []float64{2, 2}))
	writeRun(t, dir, "c.json", "DMC-2", "OK", stepObject([]float64{0, 0.1}, []float64{3, 3}))

	source, err := NewDirectorySource(dir, false, nil)
	require.NoError(t, err)

	dataset, err := NewSourceReader(source, Options{Cycles: []int{2}}).Read()
	require.NoError(t, err)

	// only the second run of DMC-1 is its second cycle
	require.Equal(t, 1, len(dataset))
	assert.Equal(t, "NOK", dataset[0].Label)
}

func TestSourceReaderChannelMismatch(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "a.json", "DMC-1", "OK",
		stepObject([]float64{0, 0.1, 0.2}, []float64{1, 2}))

	source, err := NewDirectorySource(dir, false, nil)
	require.NoError(t, err)

	_, err = NewSourceReader(source, Options{}).Read()
	assert.Error(t, err)

	// with SkipInvalid the run is dropped instead
	source, err = NewDirectorySource(dir, false, nil)
	require.NoError(t, err)
	dataset, err := NewSourceReader(source, Options{SkipInvalid: true}).Read()
	require.NoError(t, err)
	assert.Equal(t, 0, len(dataset))
}

// fakeSource serves runs from memory, the way a live connector would.
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

func TestSourceReaderFromFakeSource(t *testing.T) {
	source := &fakeSource{runs: []*core.ScrewRun{
		{
			ID:     "DMC-1",
			Result: "OK",
			Steps: []core.ScrewStep{{
				Name: "Tightening",
				Graph: map[string][]float64{
					"time values":   {0, 0.1},
					"torque values": {1, 2},
					"angle values":  {10, 20},
				},
			}},
		},
	}}

	dataset, err := NewSourceReader(source, Options{
		Channels: []string{core.ChannelTorque, core.ChannelAngle},
	}).Read()
	require.NoError(t, err)
	require.Equal(t, 1, len(dataset))
	assert.Equal(t, []float64{1, 2}, dataset[0].Values[0])
	assert.Equal(t, []float64{10, 20}, dataset[0].Values[1])
}
