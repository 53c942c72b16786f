// Package state defines shared program state.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	"pxrem/config"
	"pxrem/rewrite"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// used by convert subcommand
	Overwrite bool
	DryRun    bool
	CodePage  encoding.Encoding

	transformer *rewrite.Transformer
	once        sync.Once
	err         error

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

// Transformer returns source transformer built from loaded configuration.
// It is created once and shared by all workers.
func (e *LocalEnv) Transformer() (*rewrite.Transformer, error) {
	e.once.Do(func() {
		if e.Cfg == nil {
			e.err = errors.New("configuration is not loaded")
			return
		}
		e.transformer, e.err = rewrite.New(e.Cfg.Conversion.Options(), e.Log)
	})
	return e.transformer, e.err
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
