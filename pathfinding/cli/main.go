package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var opts cliOptions

var rootCmd = &cobra.Command{
	Use:   "cli [maze-file]",
	Short: "Solve a grid maze with greedy best-first or A* search",
	Long: `Reads a maze ('#' walls, 'A' start, 'B' goal, spaces open) and searches it.
Without a file the built-in maze is used, unless --random-height and
--random-width ask for a generated one.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 1 {
			opts.mazeFile = args[0]
		}
		code, err := run(context.Background(), opts, cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
		os.Exit(code)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&opts.policy, "policy", "astar", "Frontier ordering: astar or greedy.")
	rootCmd.PersistentFlags().StringVar(&opts.heuristic, "heuristic", "manhattan", "Heuristic: manhattan or zero.")
	rootCmd.PersistentFlags().IntVar(&opts.maxExpansions, "max-expansions", 0, "Stop after this many expansions (0 for no cap).")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "Stop after this long (0 for no deadline).")
	rootCmd.PersistentFlags().BoolVar(&opts.skipExplored, "skip-explored", false, "Never re-queue states that were already expanded.")
	rootCmd.PersistentFlags().BoolVar(&opts.compare, "compare", false, "Run both policies and compare them.")
	rootCmd.PersistentFlags().StringVar(&opts.pngPath, "png", "", "Write a PNG rendering to this path.")
	rootCmd.PersistentFlags().IntVar(&opts.cellSize, "cell-size", 24, "Pixels per cell in the PNG rendering.")
	rootCmd.PersistentFlags().BoolVar(&opts.show, "show", false, "Animate the path step by step.")
	rootCmd.PersistentFlags().DurationVar(&opts.delay, "delay", 100*time.Millisecond, "Delay between animation frames.")
	rootCmd.PersistentFlags().IntVar(&opts.randomHeight, "random-height", 0, "Generate a random maze with this many rows.")
	rootCmd.PersistentFlags().IntVar(&opts.randomWidth, "random-width", 0, "Generate a random maze with this many columns.")
	rootCmd.PersistentFlags().Float64Var(&opts.density, "density", 0.3, "Wall density of generated mazes.")
	rootCmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "Seed for generated mazes (0 picks one from the clock).")
	rootCmd.PersistentFlags().StringVar(&opts.savePath, "save", "", "Save the maze layout to this path.")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
