package screwdata

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jfwalther/screwdata/pkg/core"
	"github.com/pkg/errors"
)

// Sink receives a finished split. Monitoring or database exporters live
// behind this interface, outside the module.
type Sink interface {
	Write(split *core.Split) error
}

// NewCSVSink writes a split as CSV, one row per sample: subset ("train"
// or "test"), label, then the time-steps × channels values flattened
// row-major.
func NewCSVSink(w io.Writer) Sink {
	return &csvSink{w: w}
}

type csvSink struct {
	w io.Writer
}

func (c *csvSink) Write(split *core.Split) error {
	writer := csv.NewWriter(c.w)

	if err := c.writeSubset(writer, "train", split.XTrain, split.YTrain, split.LabelsTrain); err != nil {
		return err
	}
	if err := c.writeSubset(writer, "test", split.XTest, split.YTest, split.LabelsTest); err != nil {
		return err
	}

	writer.Flush()
	return errors.Wrap(writer.Error(), "flushing csv")
}

func (c *csvSink) writeSubset(writer *csv.Writer, subset string, x [][][]float64, y []int, labels []string) error {
	for i, sample := range x {
		label := ""
		if labels != nil {
			label = labels[i]
		} else {
			label = strconv.Itoa(y[i])
		}

		record := make([]string, 0, 2+len(sample)*len(sample[0]))
		record = append(record, subset, label)
		for _, step := range sample {
			for _, v := range step {
				record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
			}
		}

		if err := writer.Write(record); err != nil {
			return errors.Wrapf(err, "writing %s row %d", subset, i)
		}
	}
	return nil
}
