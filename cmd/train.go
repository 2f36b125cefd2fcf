package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MJRobillard/q-learner-grid/environment"
	"github.com/MJRobillard/q-learner-grid/experiment"
	"github.com/MJRobillard/q-learner-grid/experiment/painter"
	"github.com/MJRobillard/q-learner-grid/experiment/tracker"
	"github.com/MJRobillard/q-learner-grid/utils/progressbar"
)

func TrainCommand() *cobra.Command {
	var method string
	var outDir string
	var heatmap string
	var name string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a single agent and report its run",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := Configuration()
			if err != nil {
				return err
			}

			m, err := environment.ParseMethod(method)
			if err != nil {
				return err
			}

			env, err := environment.New(m, conf, seed)
			if err != nil {
				return err
			}

			exp := experiment.NewOnline(env)
			if outDir != "" {
				exp.Register(tracker.NewReturn(
					filepath.Join(outDir, method+"_returns.bin")))
				exp.Register(tracker.NewEpisodeLength(
					filepath.Join(outDir, method+"_lengths.bin")))
			}

			bar := progressbar.New(40, conf.MaxEpisodes)
			for exp.RunEpisode() {
				bar.Increment()
				bar.Display()
			}
			bar.Close()

			if outDir != "" {
				if err := exp.Save(); err != nil {
					return err
				}
			}
			if heatmap != "" {
				h := painter.NewHeatmap(48)
				if err := h.Save(env, heatmap); err != nil {
					return err
				}
			}

			snapshot := exp.Snapshot(name)
			fmt.Printf("%s | episodes: %d  converged: %v  score: %.2f  "+
				"epsilon: %.4f\n", snapshot.Mode, snapshot.Episodes,
				exp.Converged(), snapshot.Score, env.Epsilon())
			fmt.Printf("Q-values | min: %.4f  max: %.4f  avg: %.4f\n",
				env.MinQValue(), env.MaxQValue(), env.AverageQValue())

			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "qlearning", "Learning method: qlearning or sarsa")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for tracker output (omit to skip)")
	cmd.Flags().StringVar(&heatmap, "heatmap", "", "Path for a PNG value heatmap (omit to skip)")
	cmd.Flags().StringVar(&name, "name", "local", "Name recorded in the highscore snapshot")

	return cmd
}
