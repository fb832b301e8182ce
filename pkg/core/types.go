package core

// Graph channel keys as they appear in the JSON "graph" object, without
// the " values" suffix.
const (
	ChannelTorque    = "torque"
	ChannelAngle     = "angle"
	ChannelGradient  = "gradient"
	ChannelTorqueRed = "torqueRed"
	ChannelAngleRed  = "angleRed"
)

// GraphKey maps a channel name to its key in the "graph" object, e.g.
// "torque" -> "torque values".
func GraphKey(channel string) string {
	return channel + " values"
}

// TimeKey is the graph key holding the sample timestamps.
const TimeKey = "time values"

// Result labels assigned by the tightening control.
const (
	ResultOK  = "OK"
	ResultNOK = "NOK"
)

// ScrewRun is one recorded tightening operation, parsed from a single
// JSON file. The ID is the data matrix code (DMC) of the workpiece; the
// same ID appears once per tightening cycle.
type ScrewRun struct {
	ID     string      `json:"id code"`
	Result string      `json:"result"`
	Date   string      `json:"date"`
	Steps  []ScrewStep `json:"tightening steps"`
}

// ScrewStep is one step of a run, e.g. "Finding" or "Tightening 1.4".
// Graph holds the measured value arrays keyed by "<channel> values".
type ScrewStep struct {
	Name  string               `json:"name"`
	Graph map[string][]float64 `json:"graph"`
}

// Series is the numeric form of one run: the sample timestamps plus one
// value array per selected channel. Values is indexed [channel][sample];
// all channels have the same sample count as Time.
type Series struct {
	ID       string
	Label    string
	Channels []string
	Time     []float64
	Values   [][]float64
}

// Len returns the sample count of the series.
func (s *Series) Len() int {
	return len(s.Time)
}

// Dataset is an ordered collection of series. The label vector is carried
// on the series themselves.
type Dataset []*Series

// Split is the final train/test partition. The x tensors are laid out
// samples × time-steps × channels. YTrain and YTest hold binary labels
// (NOK -> 1, anything else -> 0); LabelsTrain and LabelsTest hold the raw
// label strings when the raw result format is requested.
type Split struct {
	XTrain [][][]float64
	XTest  [][][]float64

	YTrain []int
	YTest  []int

	LabelsTrain []string
	LabelsTest  []string
}
