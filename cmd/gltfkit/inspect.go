package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samcharles93/gltfkit/internal/inspect"
	"github.com/samcharles93/gltfkit/internal/logger"
	"github.com/samcharles93/gltfkit/pkg/gltf"
	"github.com/urfave/cli/v3"
)

func inspectCmd() *cli.Command {
	var (
		dump    bool
		asJSON  bool
		noFiles bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Summarize a .gltf or .glb file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dump",
				Usage:       "print the whole document structure",
				Destination: &dump,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the summary as JSON",
				Destination: &asJSON,
			},
			&cli.BoolFlag{
				Name:        "no-files",
				Usage:       "do not read external buffer files",
				Destination: &noFiles,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("error: inspect takes exactly one file", 1)
			}
			path := cmd.Args().First()
			log := logger.FromContext(ctx)

			opts := []gltf.Option{gltf.WithLogger(log)}
			if noFiles {
				opts = append(opts, gltf.WithoutFileAccess())
			}
			doc, err := gltf.Load(path, opts...)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: load %s: %v", path, err), 1)
			}

			switch {
			case dump:
				err = inspect.Dump(os.Stdout, doc)
			case asJSON:
				err = inspect.WriteJSON(os.Stdout, inspect.Summarize(doc))
			default:
				inspect.WriteTables(os.Stdout, inspect.Summarize(doc))
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}
