/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Raop2/ScheduleSmartNew/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ScheduleSmart version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("schedulesmart %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
