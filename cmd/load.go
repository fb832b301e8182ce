/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/jfwalther/screwdata/internal/prep"
	"github.com/jfwalther/screwdata/pkg/screwdata"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	FlagDataDir      = "data-dir"
	FlagSteps        = "steps"
	FlagCycles       = "cycles"
	FlagChannels     = "channels"
	FlagInterval     = "interval"
	FlagTrailing     = "trailing"
	FlagTargetLength = "target-length"
	FlagPadValue     = "pad-value"
	FlagPadSide      = "pad-side"
	FlagTruncateSide = "truncate-side"
	FlagSplitRatio   = "split-ratio"
	FlagStratify     = "stratify"
	FlagSeed         = "seed"
	FlagSkipInvalid  = "skip-invalid"
	FlagResultFormat = "result-format"
	FlagOutput       = "output"
	FlagVerbose      = "verbose"
)

var (
	dataDir      string
	steps        []int
	cycles       []int
	channels     []string
	interval     float64
	trailing     string
	targetLength int
	padValue     float64
	padSide      string
	truncateSide string
	splitRatio   float64
	stratify     bool
	seed         int64
	skipInvalid  bool
	resultFormat string
	outputFile   string
	verbose      bool
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run the preprocessing pipeline and report the dataset shape",
	Long: "load runs the full pipeline over a directory of screw run JSON files and\n" +
		"reports the resulting train/test shapes and label counts. With --output the\n" +
		"split is written as CSV, one sample per row.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := screwdata.DefaultConfig()
		cfg.DataDir = dataDir
		cfg.Steps = steps
		cfg.Cycles = cycles
		cfg.Channels = channels
		cfg.SamplingInterval = interval
		cfg.Trailing = prep.TrailingPolicy(trailing)
		cfg.TargetLength = targetLength
		cfg.PadValue = padValue
		cfg.PadSide = prep.Side(padSide)
		cfg.TruncateSide = prep.Side(truncateSide)
		cfg.SplitRatio = splitRatio
		cfg.Stratify = stratify
		cfg.Seed = seed
		cfg.SkipInvalid = skipInvalid
		cfg.ResultFormat = screwdata.ResultFormat(resultFormat)
		cfg.Verbose = verbose

		split, err := screwdata.GetData(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("train: %d samples, test: %d samples, %d time steps, %d channels\n",
			len(split.XTrain), len(split.XTest), cfg.TargetLength, len(cfg.Channels))

		if outputFile != "" {
			out, err := os.Create(outputFile)
			if err != nil {
				return errors.Wrap(err, "creating output file")
			}
			defer func() {
				_ = out.Close()
			}()

			if err := screwdata.NewCSVSink(out).Write(split); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", outputFile)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVarP(&dataDir, FlagDataDir, "d", "",
		"directory with one JSON file per screw run")
	loadCmd.Flags().IntSliceVar(&steps, FlagSteps, nil,
		"tightening steps to include (1-based), all if unset")
	loadCmd.Flags().IntSliceVar(&cycles, FlagCycles, nil,
		"tightening cycles per workpiece to include, all if unset")
	loadCmd.Flags().StringSliceVar(&channels, FlagChannels, []string{"torque"},
		"graph channels used as feature columns")
	loadCmd.Flags().Float64Var(&interval, FlagInterval, screwdata.DefaultSamplingInterval,
		"uniform sampling interval in seconds")
	loadCmd.Flags().StringVar(&trailing, FlagTrailing, "extend",
		"partial last interval policy: extend or drop")
	loadCmd.Flags().IntVarP(&targetLength, FlagTargetLength, "l", screwdata.DefaultTargetLength,
		"sample count every series is padded or truncated to")
	loadCmd.Flags().Float64Var(&padValue, FlagPadValue, 0,
		"fill value used for padding")
	loadCmd.Flags().StringVar(&padSide, FlagPadSide, "post",
		"padding side: pre or post")
	loadCmd.Flags().StringVar(&truncateSide, FlagTruncateSide, "post",
		"truncating side: pre or post")
	loadCmd.Flags().Float64VarP(&splitRatio, FlagSplitRatio, "r", screwdata.DefaultSplitRatio,
		"train fraction, inside (0,1)")
	loadCmd.Flags().BoolVar(&stratify, FlagStratify, false,
		"preserve label proportions across the split")
	loadCmd.Flags().Int64Var(&seed, FlagSeed, screwdata.DefaultSeed,
		"random seed for the split shuffle")
	loadCmd.Flags().BoolVar(&skipInvalid, FlagSkipInvalid, false,
		"skip invalid files and runs instead of aborting")
	loadCmd.Flags().StringVar(&resultFormat, FlagResultFormat, "binary",
		"label format: binary or raw")
	loadCmd.Flags().StringVarP(&outputFile, FlagOutput, "o", "",
		"write the split as CSV to this file")
	loadCmd.Flags().BoolVarP(&verbose, FlagVerbose, "v", false,
		"log per-record progress")
	_ = loadCmd.MarkFlagRequired(FlagDataDir)
}
