package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"maze-server/config"
	"maze-server/maze"
	"maze-server/pathfinding"
	"maze-server/render"
)

// Exit codes
const (
	exitOK = iota
	exitError
	exitNoPath
	exitBudget
)

type cliOptions struct {
	mazeFile      string
	policy        string
	heuristic     string
	maxExpansions int
	timeout       time.Duration
	skipExplored  bool
	compare       bool
	pngPath       string
	cellSize      int
	show          bool
	delay         time.Duration
	randomHeight  int
	randomWidth   int
	density       float64
	seed          int64
	savePath      string
}

// loadRows picks the maze source: a file, a generated maze or the default.
func loadRows(o cliOptions, out io.Writer) ([]string, error) {
	switch {
	case o.mazeFile != "":
		return maze.LoadFile(o.mazeFile)
	case o.randomHeight > 0 || o.randomWidth > 0:
		seed := o.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		fmt.Fprintf(out, "Generating %dx%d maze (seed %d)\n", o.randomHeight, o.randomWidth, seed)
		return maze.Generate(o.randomHeight, o.randomWidth, o.density, seed)
	}
	return config.DefaultMaze, nil
}

func run(ctx context.Context, o cliOptions, out io.Writer) (int, error) {
	rows, err := loadRows(o, out)
	if err != nil {
		return exitError, err
	}
	grid, err := pathfinding.ParseGrid(rows)
	if err != nil {
		return exitError, err
	}
	if o.savePath != "" {
		if err := maze.WriteFile(o.savePath, rows); err != nil {
			return exitError, err
		}
		fmt.Fprintf(out, "Maze saved to %s\n", o.savePath)
	}

	h, err := pathfinding.HeuristicByName(o.heuristic)
	if err != nil {
		return exitError, err
	}
	searchOpts := []pathfinding.Option{
		pathfinding.WithHeuristic(h),
		pathfinding.WithMaxExpansions(o.maxExpansions),
		pathfinding.WithSkipExplored(o.skipExplored),
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	fmt.Fprintln(out, "--------------------------------------------------")
	fmt.Fprintf(out, "  Maze: %dx%d  Start: %v  Goal: %v\n", grid.Height(), grid.Width(), grid.Start(), grid.Goal())
	fmt.Fprintln(out, "--------------------------------------------------")

	var res *pathfinding.Result
	if o.compare {
		cmp, err := pathfinding.Compare(ctx, grid, searchOpts...)
		if err != nil {
			return exitError, err
		}
		printResult(out, grid, cmp.Greedy)
		printResult(out, grid, cmp.AStar)
		printComparison(out, cmp)
		res = cmp.AStar
	} else {
		policy, err := pathfinding.ParsePolicy(o.policy)
		if err != nil {
			return exitError, err
		}
		res, err = pathfinding.Solve(ctx, grid, policy, searchOpts...)
		if err != nil {
			return exitError, err
		}
		printResult(out, grid, res)
	}

	if o.pngPath != "" {
		if err := writePNG(o.pngPath, grid, res, o.cellSize); err != nil {
			return exitError, err
		}
		fmt.Fprintf(out, "Rendering saved to %s\n", o.pngPath)
	}
	if o.show && res.Found() {
		animate(out, grid, res, o.delay)
	}

	switch {
	case errors.Is(res.Err(), pathfinding.ErrPathNotFound):
		return exitNoPath, nil
	case errors.Is(res.Err(), pathfinding.ErrBudgetExceeded):
		return exitBudget, nil
	}
	return exitOK, nil
}

func printResult(out io.Writer, grid *pathfinding.Grid, res *pathfinding.Result) {
	fmt.Fprintf(out, "Policy: %s\n", res.Policy)
	switch res.Status {
	case pathfinding.StatusFound:
		fmt.Fprintf(out, "Path found! Steps: %d  Moves: %s\n", res.Cost, res.Moves())
	case pathfinding.StatusNotFound:
		fmt.Fprintln(out, "No path found.")
	case pathfinding.StatusBudgetExceeded:
		fmt.Fprintln(out, "Search budget exceeded.")
	}
	fmt.Fprintf(out, "States explored: %d  Expansions: %d  Generated: %d\n", len(res.Explored), res.Expansions, res.Generated)
	fmt.Fprint(out, render.ASCII(grid, res.Path, res.Explored))
	fmt.Fprintln(out)
}

func printComparison(out io.Writer, cmp *pathfinding.Comparison) {
	g, a := cmp.Greedy, cmp.AStar
	if !g.Found() || !a.Found() {
		return
	}
	diff := g.Cost - a.Cost
	if diff == 0 {
		fmt.Fprintf(out, "Both policies found a %d-step path; A* explored %d states, greedy %d.\n", a.Cost, len(a.Explored), len(g.Explored))
		return
	}
	fmt.Fprintf(out, "A* path is %d steps shorter (%d vs %d); A* explored %d states, greedy %d.\n", diff, a.Cost, g.Cost, len(a.Explored), len(g.Explored))
}

func writePNG(path string, grid *pathfinding.Grid, res *pathfinding.Result, cellSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.PNG(f, grid, res.Path, res.Explored, cellSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// animate redraws the maze once per step with the path revealed so far.
func animate(out io.Writer, grid *pathfinding.Grid, res *pathfinding.Result, delay time.Duration) {
	for i := range res.Path {
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprint(out, render.ASCII(grid, res.Path[:i+1], nil))
		fmt.Fprintf(out, "Step %d of %d: %s to %v\n", i+1, len(res.Path), res.Actions[i], res.Path[i])
		time.Sleep(delay)
	}
}
