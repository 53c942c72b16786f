// Package convert implements conversion of source trees.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pxrem/config"
	"pxrem/rewrite"
	"pxrem/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) != 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite, env.DryRun = cmd.Bool("overwrite"), cmd.Bool("dry-run")
	if len(dst) == 0 && !env.Overwrite && !env.DryRun {
		return errors.New("no destination has been specified, use --overwrite to convert sources in place")
	}

	cp := env.Cfg.Processing.SourceCodePage
	if cmd.IsSet("codepage") {
		cp = cmd.String("codepage")
	}
	if err := env.SelectCodePage(cp); err != nil {
		return err
	}
	if cmd.IsSet("maps") {
		env.Cfg.Processing.SourceMaps = cmd.Bool("maps")
	}
	if n := int(cmd.Int("workers")); n > 0 {
		env.Cfg.Processing.Workers = n
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Bool("dry-run", env.DryRun))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	sum, err := process(ctx, src, dst, log)
	if sum != nil {
		env.Rpt.StoreData("summary.txt", []byte(sum.String()))
		log.Info("Processing summary",
			zap.Int("converted", sum.Count(StatusConverted)),
			zap.Int("unchanged", sum.Count(StatusUnchanged)),
			zap.Int("failed", sum.Count(StatusFailed)))
	}
	return err
}

type job struct {
	path string // absolute
	rel  string // relative to source root, includes file name
}

// process converts single file or all selected files under directory src.
// When dst is empty files are converted in place, otherwise results are
// written under dst keeping relative paths.
func process(ctx context.Context, src, dst string, log *zap.Logger) (*Summary, error) {
	env := state.EnvFromContext(ctx)

	tr, err := env.Transformer()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare transformer: %w", err)
	}

	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("input source was not found: %w", err)
	}

	var jobs []job
	switch {
	case fi.IsDir():
		if jobs, err = collect(ctx, src, dst, &env.Cfg.Processing, tr, log); err != nil {
			return nil, fmt.Errorf("unable to process directory: %w", err)
		}
	case fi.Mode().IsRegular():
		jobs = append(jobs, job{path: src, rel: filepath.Base(src)})
	default:
		return nil, fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if len(jobs) == 0 {
		log.Debug("Nothing to process", zap.String("source", src))
	}

	var (
		sum      = &Summary{}
		mu       sync.Mutex
		failures error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(env.Cfg.Processing.Workers))
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := processFile(env, tr, j, dst, log)
			sum.add(o)
			if o.Err != nil {
				mu.Lock()
				failures = multierr.Append(failures, fmt.Errorf("%s: %w", o.Path, o.Err))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	if failures != nil {
		return sum, fmt.Errorf("unable to process %d file(s): %w", len(multierr.Errors(failures)), failures)
	}
	return sum, nil
}

func workers(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// collect walks directory tree selecting files transformer wants.
func collect(ctx context.Context, dir, dst string, conf *config.ProcessingConfig, tr *rewrite.Transformer, log *zap.Logger) ([]job, error) {
	var jobs []job
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}

		if d.IsDir() {
			if path == dir {
				return nil
			}
			if slices.Contains(conf.SkipDirs, d.Name()) || path == dst {
				log.Debug("Skipping directory", zap.String("dir", path))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !hasExtension(path, conf.Extensions) {
			return nil
		}
		if !tr.Wants(path) {
			log.Debug("Skipping file, filtered out", zap.String("file", path))
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job{path: path, rel: rel})
		return nil
	})
	return jobs, err
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	return slices.ContainsFunc(exts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// processFile converts single source file. Failures are logged and returned
// in outcome, source is never modified on failure.
func processFile(env *state.LocalEnv, tr *rewrite.Transformer, j job, dst string, log *zap.Logger) (o Outcome) {
	o.Path = filepath.ToSlash(j.rel)
	defer func(start time.Time) {
		o.Elapsed = time.Since(start)
		if o.Err != nil {
			o.Status = StatusFailed
			log.Error("Unable to process file, leaving it unchanged", zap.String("file", j.path), zap.Error(o.Err))
		}
	}(time.Now())

	data, err := os.ReadFile(j.path)
	if err != nil {
		o.Err = err
		return
	}
	text, c, err := decodeSource(data, env.CodePage)
	if err != nil {
		o.Err = err
		return
	}
	res, err := tr.Process(text, j.path)
	if err != nil {
		o.Err = err
		return
	}

	out := j.path
	if len(dst) != 0 {
		out = filepath.Join(dst, j.rel)
	}

	if res == nil {
		o.Status = StatusUnchanged
		if len(dst) != 0 && !env.DryRun {
			o.Err = writeFile(out, data, env.Overwrite)
		}
		return
	}

	converted, err := c.encode(res.Code)
	if err != nil {
		o.Err = err
		return
	}
	o.Status, o.Edits = StatusConverted, res.Edits

	env.Rpt.StoreData(path.Join("original", o.Path), data)
	env.Rpt.StoreData(path.Join("converted", o.Path), converted)

	if env.DryRun {
		log.Info("Would convert", zap.String("file", j.path), zap.Int("edits", res.Edits))
		return
	}

	// converting in place always replaces the source
	if o.Err = writeFile(out, converted, env.Overwrite || len(dst) == 0); o.Err != nil {
		return
	}
	if env.Cfg.Processing.SourceMaps {
		m, err := res.Map.JSON()
		if err != nil {
			o.Err = fmt.Errorf("unable to prepare source map: %w", err)
			return
		}
		if o.Err = writeFile(out+".map", m, true); o.Err != nil {
			return
		}
	}
	log.Debug("Conversion completed", zap.String("file", j.path), zap.String("to", out), zap.Int("edits", res.Edits))
	return
}

// writeFile replaces content of the file atomically keeping its permissions.
func writeFile(name string, data []byte, overwrite bool) error {
	perm := fs.FileMode(0644)
	if fi, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		perm = fi.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	_, err = f.Write(data)
	err = multierr.Combine(err, f.Chmod(perm), f.Close())
	if err != nil {
		return fmt.Errorf("unable to write %s: %w", name, err)
	}
	return os.Rename(f.Name(), name)
}
