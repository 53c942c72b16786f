package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pxrem/config"
	"pxrem/state"
	"pxrem/syntax"
)

// output opens destination named by argument at index, stdout when absent.
func output(cmd *cli.Command, index int, log *zap.Logger) (io.WriteCloser, string, error) {
	if cmd.Args().Len() > index+1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[index+1:]))
	}
	fname := cmd.Args().Get(index)
	if len(fname) == 0 {
		return nopCloser{os.Stdout}, "STDOUT", nil
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, "", fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return f, fname, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	var (
		data []byte
		kind = "actual"
	)
	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	out, fname, err := output(cmd, 0, env.Log)
	if err != nil {
		return err
	}
	defer out.Close()

	env.Log.Info("Outputing configuration", zap.String("state", kind), zap.String("file", fname))
	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

func outputTree(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	prog, err := syntax.Parse(string(data), syntax.Options{Markup: syntax.MarkupAllowed(src)})
	if err != nil {
		return fmt.Errorf("unable to parse %s: %w", src, err)
	}
	tree := syntax.Dump(prog)
	env.Rpt.StoreData("tree.txt", []byte(tree))

	out, fname, err := output(cmd, 1, env.Log)
	if err != nil {
		return err
	}
	defer out.Close()

	env.Log.Debug("Outputing syntax tree", zap.String("source", src), zap.String("file", fname))
	if _, err := io.WriteString(out, tree); err != nil {
		return fmt.Errorf("unable to write syntax tree: %w", err)
	}
	return nil
}
