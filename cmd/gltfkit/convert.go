package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samcharles93/gltfkit/internal/logger"
	"github.com/samcharles93/gltfkit/internal/version"
	"github.com/samcharles93/gltfkit/pkg/gltf"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	formGLB  = "glb"
	formGLTF = "gltf"
)

type convertOptions struct {
	to     string
	embed  bool
	outDir string
}

func convertCmd() *cli.Command {
	var (
		opts convertOptions
		jobs int
	)

	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert assets between the .gltf and .glb forms",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "to",
				Usage:       "output form (glb, gltf)",
				Value:       formGLB,
				Destination: &opts.to,
			},
			&cli.BoolFlag{
				Name:        "embed",
				Usage:       "embed buffers as data URIs when writing .gltf",
				Destination: &opts.embed,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory (default: next to each input)",
				Destination: &opts.outDir,
			},
			&cli.IntFlag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "files converted concurrently",
				Value:       runtime.NumCPU(),
				Destination: &jobs,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConvertConfig(cmd, config, &opts.embed, &jobs)
			if opts.to != formGLB && opts.to != formGLTF {
				return cli.Exit(fmt.Sprintf("error: --to must be %s or %s", formGLB, formGLTF), 1)
			}
			if cmd.Args().Len() == 0 {
				return cli.Exit("error: no input files", 1)
			}
			if err := convertAll(ctx, cmd.Args().Slice(), opts, jobs); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

func packCmd() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Pack a .gltf and its buffers into a single .glb",
		ArgsUsage: "<in.gltf> <out.glb>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return cli.Exit("error: pack takes an input and an output path", 1)
			}
			in, out := cmd.Args().Get(0), cmd.Args().Get(1)
			if err := convertFile(ctx, in, out, convertOptions{to: formGLB}); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return nil
		},
	}
}

// convertAll converts inputs with at most jobs conversions in flight. The
// first failure cancels the remaining conversions.
func convertAll(ctx context.Context, inputs []string, opts convertOptions, jobs int) error {
	if jobs < 1 {
		jobs = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return convertFile(ctx, in, outputPath(in, opts.to, opts.outDir), opts)
		})
	}
	return g.Wait()
}

// convertFile loads in and writes it to out in the requested form.
func convertFile(ctx context.Context, in, out string, opts convertOptions) error {
	log := logger.FromContext(ctx).With("in", in)
	doc, err := gltf.Load(in, gltf.WithLogger(log))
	if err != nil {
		return errors.Wrapf(err, "load %s", in)
	}
	if doc.Asset.Generator == "" {
		doc.Asset.Generator = version.Generator()
	}

	switch opts.to {
	case formGLB:
		err = doc.SaveAsContainer(out)
	case formGLTF:
		err = doc.SaveAsText(out, opts.embed)
	default:
		err = errors.Newf("unknown output form %q", opts.to)
	}
	if err != nil {
		return errors.Wrapf(err, "save %s", out)
	}
	log.Info("converted", "out", out, "buffers", len(doc.Buffers))
	return nil
}

// outputPath swaps the extension of in for the target form and moves it to
// outDir when one is given.
func outputPath(in, to, outDir string) string {
	base := filepath.Base(in)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + "." + to
	if outDir == "" {
		return filepath.Join(filepath.Dir(in), base)
	}
	return filepath.Join(outDir, base)
}
