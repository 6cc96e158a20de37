/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/tecio/tecplot"
)

// MergeCmd represents the merge command
var MergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge per rank Tecplot files into one",
	Long: `
Concatenates base_1.dat .. base_N.dat in rank order into base.dat and removes
the per rank files.

tecio merge --base flow --ranks 4`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			base   string
			nRanks int
			merged string
		)
		base, _ = cmd.Flags().GetString("base")
		nRanks, _ = cmd.Flags().GetInt("ranks")
		if len(base) == 0 {
			return fmt.Errorf("must supply the base file name (-b, --base)")
		}
		if merged, err = tecplot.MergeRankFiles(base, nRanks); err != nil {
			return
		}
		log.Infof("merged %d files into %s", nRanks, merged)
		return
	},
}

func init() {
	rootCmd.AddCommand(MergeCmd)
	MergeCmd.Flags().StringP("base", "b", "", "base name of the per rank files, without the _<rank>.dat suffix")
	MergeCmd.Flags().IntP("ranks", "n", 1, "number of per rank files")
}
