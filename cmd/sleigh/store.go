package main

import (
	"context"
	"io"

	"github.com/konkers/sleigh/bolt"
	"github.com/konkers/sleigh/kit/cli"
	"github.com/konkers/sleigh/logger"
	"go.uber.org/zap/zapcore"
)

// storeFlags are the options every sub-command shares.
type storeFlags struct {
	boltPath  string
	logLevel  zapcore.Level
	logFormat string
}

func (f *storeFlags) opts() []cli.Opt {
	return []cli.Opt{
		{
			DestP:    &f.boltPath,
			Flag:     "bolt-path",
			Desc:     "path to the boltdb file",
			Required: true,
		},
		{
			DestP:   &f.logLevel,
			Flag:    "log-level",
			Default: zapcore.WarnLevel,
			Desc:    "supported log levels are debug, info, warn and error",
		},
		{
			DestP:   &f.logFormat,
			Flag:    "log-format",
			Default: "auto",
			Desc:    "log output format: console, logfmt or json",
		},
	}
}

// loggerContext builds the logger the flags describe and returns a context
// carrying it. Sub-commands pull it back out with logger.FromContext.
func (f *storeFlags) loggerContext(w io.Writer) (context.Context, error) {
	log, err := logger.Config{Format: f.logFormat, Level: f.logLevel}.New(w)
	if err != nil {
		return nil, err
	}
	return logger.NewContextWithLogger(context.Background(), log), nil
}

// open opens the bolt file. Inspection commands pass bolt.WithReadOnly,
// which takes a shared lock, so several of them can read the file at once.
func (f *storeFlags) open(ctx context.Context, opts ...bolt.KVOption) (*bolt.KVStore, error) {
	st := bolt.NewKVStore(logger.FromContext(ctx), f.boltPath, opts...)
	if err := st.Open(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
