// Package screwdata loads screw driving operation records from JSON
// files, resamples them onto a uniform time grid, forces them to a fixed
// length and splits the result into train and test partitions.
package screwdata

import (
	"github.com/jfwalther/screwdata/internal/loader"
	"github.com/jfwalther/screwdata/internal/logs"
	"github.com/jfwalther/screwdata/internal/prep"
	"github.com/jfwalther/screwdata/pkg/core"
)

// GetData runs the full pipeline: load, equidistance, length-normalize,
// split. It either returns the complete requested split or the first
// unrecovered error; there are no partial results. Record-level failures
// (unreadable files, schema violations, runs too short to resample) abort
// the run unless SkipInvalid is set, in which case they are logged and
// dropped.
func GetData(cfg Config) (*core.Split, error) {
	if err := cfg.Complete(); err != nil {
		return nil, err
	}

	logger := logs.Discard()
	if cfg.LoggingEnabled {
		logger = logs.New(cfg.Verbose)
	}

	logger.Info("loading screw runs",
		"dir", cfg.DataDir, "channels", cfg.Channels, "skipInvalid", cfg.SkipInvalid)

	source, err := loader.NewDirectorySource(cfg.DataDir, cfg.SkipInvalid, logger)
	if err != nil {
		return nil, err
	}
	raw, err := loader.NewSourceReader(source, loader.Options{
		Steps:       cfg.Steps,
		Cycles:      cfg.Cycles,
		Channels:    cfg.Channels,
		SkipInvalid: cfg.SkipInvalid,
		Logger:      logger,
	}).Read()
	if err != nil {
		return nil, err
	}

	equidistance := prep.Equidistance(cfg.SamplingInterval, cfg.Trailing)
	normalize := prep.NormalizeLength(cfg.TargetLength, cfg.PadValue,
		cfg.PadSide, cfg.TruncateSide, cfg.SamplingInterval)

	var rawLens, gridLens lengths
	kept := make(core.Dataset, 0, len(raw))
	for _, series := range raw {
		before := series.Len()
		if err := equidistance.Apply(series); err != nil {
			if cfg.SkipInvalid {
				logger.Warn("skipping run", "id", series.ID, "err", err)
				continue
			}
			return nil, err
		}
		rawLens.add(before)
		gridLens.add(series.Len())

		if err := normalize.Apply(series); err != nil {
			return nil, err
		}
		kept = append(kept, series)
	}

	train, test, err := prep.Split(kept, cfg.SplitRatio, cfg.Seed, cfg.Stratify)
	if err != nil {
		return nil, err
	}

	split := &core.Split{
		XTrain: prep.Tensor(train),
		XTest:  prep.Tensor(test),
	}
	if cfg.ResultFormat == ResultRaw {
		split.LabelsTrain = prep.RawLabels(train)
		split.LabelsTest = prep.RawLabels(test)
	} else {
		split.YTrain = prep.BinaryLabels(train)
		split.YTest = prep.BinaryLabels(test)
	}

	logger.Info("resampling finished",
		"avgRawLength", rawLens.avg(), "avgGridLength", gridLens.avg(),
		"targetLength", cfg.TargetLength)
	logger.Info("dataset ready",
		"train", len(split.XTrain), "test", len(split.XTest),
		"trainNOK", count(split.YTrain, 1), "testNOK", count(split.YTest, 1))

	return split, nil
}

type lengths struct {
	sum   int
	count int
}

func (l *lengths) add(n int) {
	l.sum += n
	l.count++
}

func (l *lengths) avg() float64 {
	if l.count == 0 {
		return 0
	}
	return float64(l.sum) / float64(l.count)
}

func count(labels []int, label int) int {
	n := 0
	for _, l := range labels {
		if l == label {
			n++
		}
	}
	return n
}
