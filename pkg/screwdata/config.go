package screwdata

import (
	"github.com/go-playground/validator/v10"
	"github.com/jfwalther/screwdata/internal/prep"
	"github.com/jfwalther/screwdata/pkg/core"
	"github.com/pkg/errors"
)

// ResultFormat selects how labels come back from the pipeline.
type ResultFormat string

const (
	// ResultBinary maps NOK to 1 and everything else to 0.
	ResultBinary = ResultFormat("binary")
	// ResultRaw keeps the label strings as recorded.
	ResultRaw = ResultFormat("raw")
)

const (
	DefaultSamplingInterval = prep.DefaultInterval
	DefaultTargetLength     = 800
	DefaultSplitRatio       = 0.8
	DefaultSeed             = 42
)

// Config drives the whole pipeline. The zero value of every field except
// DataDir is replaced by its default in Complete.
type Config struct {
	// DataDir is the directory of JSON screw run files.
	DataDir string `validate:"required"`

	// Steps selects tightening steps by 1-based index, empty selects all.
	Steps []int `validate:"omitempty,dive,gte=1"`
	// Cycles selects tightening cycles per workpiece, empty selects all.
	Cycles []int `validate:"omitempty,dive,gte=1"`
	// Channels are the graph channels used as feature columns.
	Channels []string `validate:"omitempty,dive,oneof=torque angle gradient torqueRed angleRed"`

	// SamplingInterval is the uniform grid step in seconds.
	SamplingInterval float64 `validate:"gte=0"`
	// Trailing decides how a partial last interval is resampled.
	Trailing prep.TrailingPolicy `validate:"oneof=extend drop"`

	// TargetLength is the sample count every series is forced to.
	TargetLength int `validate:"gte=0"`
	PadValue     float64
	PadSide      prep.Side `validate:"oneof=pre post"`
	TruncateSide prep.Side `validate:"oneof=pre post"`

	// SplitRatio is the train fraction, inside (0,1).
	SplitRatio float64
	Stratify   bool
	Seed       int64

	// SkipInvalid skips bad files and runs instead of aborting on the
	// first one.
	SkipInvalid bool

	ResultFormat ResultFormat `validate:"oneof=binary raw"`

	LoggingEnabled bool
	Verbose        bool
}

// DefaultConfig returns the published defaults. DataDir stays empty and
// must be set by the caller.
func DefaultConfig() Config {
	return Config{
		Channels:         []string{core.ChannelTorque},
		SamplingInterval: DefaultSamplingInterval,
		Trailing:         prep.TrailingExtend,
		TargetLength:     DefaultTargetLength,
		PadValue:         0,
		PadSide:          prep.SidePost,
		TruncateSide:     prep.SidePost,
		SplitRatio:       DefaultSplitRatio,
		Stratify:         false,
		Seed:             DefaultSeed,
		SkipInvalid:      false,
		ResultFormat:     ResultBinary,
		LoggingEnabled:   true,
	}
}

var validate = validator.New()

// Complete fills defaults into zero-valued fields and validates the rest.
func (c *Config) Complete() error {
	if len(c.Channels) == 0 {
		c.Channels = []string{core.ChannelTorque}
	}
	if c.SamplingInterval == 0 {
		c.SamplingInterval = DefaultSamplingInterval
	}
	if c.Trailing == "" {
		c.Trailing = prep.TrailingExtend
	}
	if c.TargetLength == 0 {
		c.TargetLength = DefaultTargetLength
	}
	if c.PadSide == "" {
		c.PadSide = prep.SidePost
	}
	if c.TruncateSide == "" {
		c.TruncateSide = prep.SidePost
	}
	if c.SplitRatio == 0 {
		c.SplitRatio = DefaultSplitRatio
	}
	if c.ResultFormat == "" {
		c.ResultFormat = ResultBinary
	}

	if c.SplitRatio <= 0 || c.SplitRatio >= 1 {
		return &core.InvalidSplitRatioError{Ratio: c.SplitRatio, Size: -1}
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	return nil
}
