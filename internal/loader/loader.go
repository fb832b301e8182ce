package loader

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jfwalther/screwdata/internal/logs"
	"github.com/jfwalther/screwdata/pkg/core"
	"github.com/pkg/errors"
)

// Source produces screw runs one at a time. Load returns io.EOF once the
// source is exhausted; any other error means the read failed.
//
// Live data connectors can implement this interface; the module itself
// only ships the directory source.
type Source interface {
	Load() (*core.ScrewRun, error)
}

// Options controls how runs are turned into series.
type Options struct {
	Steps       []int    // 1-based tightening step selection, empty selects all
	Cycles      []int    // per-workpiece cycle selection, empty selects all
	Channels    []string // graph channels used as feature columns
	SkipInvalid bool     // skip runs with broken channel data instead of aborting
	Logger      logs.Logger
}

// Reader drains a source and produces the raw dataset.
type Reader interface {
	Read() (core.Dataset, error)
}

func NewSourceReader(source Source, opts Options) Reader {
	if opts.Logger == nil {
		opts.Logger = logs.Discard()
	}
	if len(opts.Channels) == 0 {
		opts.Channels = []string{core.ChannelTorque}
	}
	return &sourceReader{source: source, opts: opts}
}

type sourceReader struct {
	source Source
	opts   Options
}

func (s *sourceReader) Read() (core.Dataset, error) {
	dataset := make(core.Dataset, 0, 64)
	cycleCounts := make(map[string]int)

	var run *core.ScrewRun
	var err error
	for run, err = s.source.Load(); err == nil; run, err = s.source.Load() {
		cycleCounts[run.ID]++
		if !selectedCycle(cycleCounts[run.ID], s.opts.Cycles) {
			continue
		}

		series, err := buildSeries(run, s.opts.Steps, s.opts.Channels)
		if err != nil {
			if s.opts.SkipInvalid {
				s.opts.Logger.Warn("skipping run with broken channel data", "id", run.ID, "err", err)
				continue
			}
			return nil, err
		}
		dataset = append(dataset, series)
		s.opts.Logger.Debug("loaded run", "id", run.ID, "result", run.Result, "samples", series.Len())
	}

	if err != io.EOF {
		return nil, errors.Wrap(err, "reading screw runs")
	}

	return dataset, nil
}

func selectedCycle(cycle int, cycles []int) bool {
	if len(cycles) == 0 {
		return true
	}
	for _, c := range cycles {
		if c == cycle {
			return true
		}
	}
	return false
}

// buildSeries concatenates the requested channels over the selected steps.
// Step indices beyond the run's step count are ignored. Every channel must
// line up with the time axis sample for sample.
func buildSeries(run *core.ScrewRun, steps []int, channels []string) (*core.Series, error) {
	selected := make([]core.ScrewStep, 0, len(run.Steps))
	if len(steps) == 0 {
		selected = run.Steps
	} else {
		for _, idx := range steps {
			if idx >= 1 && idx <= len(run.Steps) {
				selected = append(selected, run.Steps[idx-1])
			}
		}
	}

	series := &core.Series{
		ID:       run.ID,
		Label:    run.Result,
		Channels: channels,
		Values:   make([][]float64, len(channels)),
	}
	for _, step := range selected {
		series.Time = append(series.Time, step.Graph[core.TimeKey]...)
		for i, channel := range channels {
			series.Values[i] = append(series.Values[i], step.Graph[core.GraphKey(channel)]...)
		}
	}

	for i, channel := range channels {
		if len(series.Values[i]) != len(series.Time) {
			return nil, errors.Errorf("run %s: channel %q has %d samples, time axis has %d",
				run.ID, channel, len(series.Values[i]), len(series.Time))
		}
	}

	return series, nil
}

// NewDirectorySource reads every .json file of a directory, one run per
// file, in lexical file name order. Files are parsed concurrently on the
// first Load; the serving order stays deterministic. With skipInvalid set,
// unreadable or schema-violating files are logged and dropped, otherwise
// the first bad file aborts the load.
func NewDirectorySource(dir string, skipInvalid bool, logger logs.Logger) (Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing data directory")
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	if logger == nil {
		logger = logs.Discard()
	}

	return &directorySource{
		dir:         dir,
		files:       files,
		skipInvalid: skipInvalid,
		logger:      logger,
	}, nil
}

type directorySource struct {
	dir         string
	files       []string
	skipInvalid bool
	logger      logs.Logger

	loaded bool
	runs   []*core.ScrewRun
	next   int
}

func (d *directorySource) Load() (*core.ScrewRun, error) {
	if !d.loaded {
		if err := d.parseAll(); err != nil {
			return nil, err
		}
		d.loaded = true
	}

	if d.next >= len(d.runs) {
		return nil, io.EOF
	}
	run := d.runs[d.next]
	d.next++
	return run, nil
}

func (d *directorySource) parseAll() error {
	parsed := make([]*core.ScrewRun, len(d.files))

	wg := sync.WaitGroup{}
	errCh := make(chan error)
	doneCh := make(chan struct{})

	for i, name := range d.files {
		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()

			run, err := readRunFile(filepath.Join(d.dir, name), name)
			if err != nil {
				if d.skipInvalid {
					d.logger.Warn("skipping invalid file", "file", name, "err", err)
					return
				}
				errCh <- err
				return
			}
			parsed[idx] = run
		}(i, name)
	}

	go func() {
		wg.Wait()
		doneCh <- struct{}{}
	}()

	select {
	case <-doneCh:
		break
	case err := <-errCh:
		// fail fast
		return err
	}

	d.runs = make([]*core.ScrewRun, 0, len(parsed))
	for _, run := range parsed {
		if run != nil {
			d.runs = append(d.runs, run)
		}
	}
	return nil
}

func readRunFile(path, name string) (*core.ScrewRun, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &core.LoadError{File: name, Err: err}
	}
	defer func() {
		_ = file.Close()
	}()

	run := &core.ScrewRun{}
	if err := json.NewDecoder(file).Decode(run); err != nil {
		return nil, &core.LoadError{File: name, Err: err}
	}

	// A nil Steps slice means the key was absent; an empty array decodes
	// to a non-nil slice and is a valid (if useless) run.
	switch {
	case run.ID == "":
		return nil, &core.SchemaError{File: name, Field: "id code"}
	case run.Result == "":
		return nil, &core.SchemaError{File: name, Field: "result"}
	case run.Steps == nil:
		return nil, &core.SchemaError{File: name, Field: "tightening steps"}
	}

	return run, nil
}
