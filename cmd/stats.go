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

	"github.com/jfwalther/screwdata/internal/loader"
	"github.com/jfwalther/screwdata/internal/logs"
	"github.com/jfwalther/screwdata/internal/stats"
	"github.com/spf13/cobra"
)

var (
	statsDataDir     string
	statsSkipInvalid bool
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a raw dataset without preprocessing it",
	Long: "stats reads every screw run of a directory and prints label counts, runs\n" +
		"per workpiece and the raw series length distribution.",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := loader.NewDirectorySource(statsDataDir, statsSkipInvalid, logs.New(false))
		if err != nil {
			return err
		}

		report, err := stats.Collect(source)
		if err != nil {
			return err
		}

		fmt.Print(report.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDataDir, FlagDataDir, "d", "",
		"directory with one JSON file per screw run")
	statsCmd.Flags().BoolVar(&statsSkipInvalid, FlagSkipInvalid, false,
		"skip invalid files instead of aborting")
	_ = statsCmd.MarkFlagRequired(FlagDataDir)
}
