// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"symconv/config"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

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
	return context.WithValue(ctx, envKey{}, &LocalEnv{start: time.Now(), Log: zap.NewNop()})
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// RedirectStdLog sends output of standard library logger to our log.
func (e *LocalEnv) RedirectStdLog() {
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

// RestoreStdLog flushes our log and undoes RedirectStdLog.
func (e *LocalEnv) RestoreStdLog() {
	_ = e.Log.Sync()
	if e.restoreStdLog != nil {
		e.restoreStdLog()
		e.restoreStdLog = nil
	}
}
