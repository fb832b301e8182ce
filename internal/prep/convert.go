package prep

import "github.com/jfwalther/screwdata/pkg/core"

// Tensor lays a dataset out as samples × time-steps × channels. Every
// series must already be length-normalized; the tensor shares no memory
// with the dataset.
func Tensor(dataset core.Dataset) [][][]float64 {
	out := make([][][]float64, len(dataset))
	for i, series := range dataset {
		steps := make([][]float64, series.Len())
		for t := range steps {
			row := make([]float64, len(series.Values))
			for c := range series.Values {
				row[c] = series.Values[c][t]
			}
			steps[t] = row
		}
		out[i] = steps
	}
	return out
}

// BinaryLabels maps the tightening control result to 1 for NOK and 0 for
// everything else.
func BinaryLabels(dataset core.Dataset) []int {
	out := make([]int, len(dataset))
	for i, series := range dataset {
		if series.Label == core.ResultNOK {
			out[i] = 1
		}
	}
	return out
}

// RawLabels returns the label strings as recorded.
func RawLabels(dataset core.Dataset) []string {
	out := make([]string, len(dataset))
	for i, series := range dataset {
		out[i] = series.Label
	}
	return out
}
