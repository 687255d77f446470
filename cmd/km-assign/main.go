package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/someonegg/kmmatch"
)

func main() {
	app := &cli.App{
		Name:  "km-assign",
		Usage: "Utility for assigning patients to doctors by preference",
		Commands: []*cli.Command{
			solveCmd,
			exampleCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
}

var solveCmd = &cli.Command{
	Name:    "solve",
	Usage:   "Solve an assignment problem",
	Aliases: []string{"s"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "problem",
			Required: true,
			Usage:    "specify the input problem file (json, yaml or toml)",
		},
		&cli.StringFlag{
			Name:     "out",
			Required: false,
			Usage:    "specify the output allocation file (.yaml/.yml for yaml, json otherwise)",
		},
		&cli.StringFlag{
			Name:     "strategy",
			Required: false,
			Value:    kmmatch.StrategyOptimal,
			Usage:    "specify the strategy (optimal, greedy)",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "reject preferences naming unknown doctors",
		},
		&cli.BoolFlag{
			Name:  "compare",
			Usage: "also run the other strategy and print the score gap",
		},
		&cli.StringFlag{
			Name:     "metrics",
			Required: false,
			Usage:    "specify a file to write prometheus metrics to",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log every assignment",
		},
	},
	Action: func(ctx *cli.Context) error {
		opts := solveOptions{
			problemFile: ctx.String("problem"),
			outFile:     ctx.String("out"),
			metricsFile: ctx.String("metrics"),
			compare:     ctx.Bool("compare"),
			verbose:     ctx.Bool("verbose"),
		}
		if ctx.IsSet("strategy") {
			s := ctx.String("strategy")
			if s != kmmatch.StrategyOptimal && s != kmmatch.StrategyGreedy {
				return errors.New("invalid strategy")
			}
			opts.strategy = &s
		}
		if ctx.IsSet("strict") {
			strict := ctx.Bool("strict")
			opts.strict = &strict
		}
		return doSolve(ctx.Context, ctx.App.Writer, opts)
	},
}

var exampleCmd = &cli.Command{
	Name:  "example",
	Usage: "Print a sample problem in yaml",
	Action: func(ctx *cli.Context) error {
		return writeExample(ctx.App.Writer)
	},
}
