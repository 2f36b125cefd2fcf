package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"

	"github.com/MJRobillard/q-learner-grid/environment"
)

// compareResult summarizes one agent's run for the final report
type compareResult struct {
	method    string
	episodes  int
	converged bool
	score     float64
	goals     int
	hazards   int
	avgQ      float64
}

func CompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Train Q-Learning and SARSA side by side on the same configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := Configuration()
			if err != nil {
				return err
			}

			writer := uilive.New()
			writer.Start()

			methods := []environment.Method{
				environment.QLearning,
				environment.Sarsa,
			}

			results := make([]compareResult, len(methods))
			wg := new(sync.WaitGroup)
			for i, m := range methods {
				env, err := environment.New(m, conf, seed)
				if err != nil {
					writer.Stop()
					return err
				}

				var line io.Writer = writer
				if i > 0 {
					line = writer.Newline()
				}

				wg.Add(1)
				go func(i int, env environment.Environment, line io.Writer) {
					defer wg.Done()
					results[i] = runComparison(env, line)
				}(i, env, line)
			}
			wg.Wait()
			writer.Stop()

			fmt.Printf("\n%-10s %9s %10s %10s %7s %8s %9s\n", "method",
				"episodes", "converged", "score", "goals", "hazards", "avg Q")
			for _, r := range results {
				fmt.Printf("%-10s %9d %10v %10.2f %7d %8d %9.4f\n",
					r.method, r.episodes, r.converged, r.score, r.goals,
					r.hazards, r.avgQ)
			}

			return nil
		},
	}

	return cmd
}

// runComparison trains one agent episode by episode, reporting live
// progress on its own terminal line. The two agents share nothing but
// the configuration value, so running them concurrently is safe.
func runComparison(env environment.Environment, line io.Writer) compareResult {
	conf := env.Config()
	res := compareResult{method: env.Method()}

	for i := 0; i < conf.MaxEpisodes; i++ {
		result := env.RunEpisode()
		env.EndEpisode()

		res.episodes++
		res.score += result.TotalReward
		if result.ReachedGoal {
			res.goals++
		}
		if result.HitHazard {
			res.hazards++
		}

		fmt.Fprintf(line,
			"%-10s episode %d/%d  score: %.2f  epsilon: %.4f\n",
			env.Method(), res.episodes, conf.MaxEpisodes, res.score,
			env.Epsilon())

		if result.AvgValueChange < conf.ConvergenceThreshold {
			res.converged = true
			break
		}
	}

	res.avgQ = env.AverageQValue()
	return res
}
