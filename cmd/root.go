// Package cmd implements the command line interface for training and
// comparing the tabular agents
package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qgrid",
		Short: "Tabular Q-Learning and SARSA agents on a configurable gridworld",
	}
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
		CompareCommand(),
	)

	return cmd
}
