package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/konkers/sleigh/bolt"
	"github.com/konkers/sleigh/keyenc"
	"github.com/konkers/sleigh/kit/cli"
	"github.com/konkers/sleigh/kv"
	"github.com/konkers/sleigh/logger"
	"github.com/konkers/sleigh/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix   = "sleigh"
	keyTypeDesc = "how keys are written: bytes (hex), uint16, int16, uint32, int32, uint64, int64, ordered-int16, ordered-int32, ordered-int64, string or id"
)

func newBucketsCommand(out, logOut io.Writer) (*cobra.Command, error) {
	var flags storeFlags
	return cli.NewCommand(viper.New(), &cli.Program{
		Name:      "buckets",
		Short:     "List the buckets in a store with their key counts and sizes",
		EnvPrefix: envPrefix,
		Opts:      flags.opts(),
		Run: func() error {
			ctx, err := flags.loggerContext(logOut)
			if err != nil {
				return err
			}
			st, err := flags.open(ctx, bolt.WithReadOnly)
			if err != nil {
				return err
			}
			defer st.Close()

			return listBuckets(ctx, st, out)
		},
	})
}

func listBuckets(ctx context.Context, st kv.Store, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "BUCKET\tKEYS\tSIZE")

	err := st.View(ctx, func(tx kv.Tx) error {
		return tx.ForEachBucket(func(name []byte, b kv.Bucket) error {
			c, err := b.Cursor()
			if err != nil {
				return err
			}
			var n, size uint64
			for k, v := c.First(); k != nil; k, v = c.Next() {
				n++
				size += uint64(len(k) + len(v))
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", name, n, humanize.IBytes(size))
			return nil
		})
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func newDumpCommand(out, logOut io.Writer) (*cobra.Command, error) {
	var (
		flags   storeFlags
		bucket  string
		keyType string
	)
	opts := append(flags.opts(),
		cli.Opt{
			DestP:    &bucket,
			Flag:     "bucket",
			Desc:     "bucket to dump, usually the record type name",
			Required: true,
		},
		cli.Opt{
			DestP:   &keyType,
			Flag:    "key-type",
			Default: keyenc.KindBytes.String(),
			Desc:    keyTypeDesc,
		},
	)

	return cli.NewCommand(viper.New(), &cli.Program{
		Name:      "dump",
		Short:     "Print every key and value of a bucket",
		EnvPrefix: envPrefix,
		Opts:      opts,
		Run: func() error {
			kind, err := keyenc.ParseKind(keyType)
			if err != nil {
				return err
			}
			ctx, err := flags.loggerContext(logOut)
			if err != nil {
				return err
			}
			st, err := flags.open(ctx, bolt.WithReadOnly)
			if err != nil {
				return err
			}
			defer st.Close()

			return dumpBucket(ctx, st, []byte(bucket), kind, out)
		},
	})
}

func dumpBucket(ctx context.Context, st kv.Store, bucket []byte, kind keyenc.Kind, out io.Writer) error {
	return st.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return fmt.Errorf("bucket %q: %w", bucket, err)
		}
		c, err := b.Cursor()
		if err != nil {
			return err
		}
		for k, v := c.First(); k != nil; k, v = c.Next() {
			key, err := kind.Format(k)
			if err != nil {
				return fmt.Errorf("key %x: %w", k, err)
			}
			fmt.Fprintf(out, "%s\t%s\n", key, v)
		}
		return nil
	})
}

func newGetCommand(out, logOut io.Writer) (*cobra.Command, error) {
	var (
		flags   storeFlags
		bucket  string
		key     string
		keyType string
	)
	opts := append(flags.opts(),
		cli.Opt{
			DestP:    &bucket,
			Flag:     "bucket",
			Desc:     "bucket to read from, usually the record type name",
			Required: true,
		},
		cli.Opt{
			DestP:    &key,
			Flag:     "key",
			Desc:     "key of the record to print",
			Required: true,
		},
		cli.Opt{
			DestP:   &keyType,
			Flag:    "key-type",
			Default: keyenc.KindBytes.String(),
			Desc:    keyTypeDesc,
		},
	)

	return cli.NewCommand(viper.New(), &cli.Program{
		Name:      "get",
		Short:     "Print the value stored under one key",
		EnvPrefix: envPrefix,
		Opts:      opts,
		Run: func() error {
			kind, err := keyenc.ParseKind(keyType)
			if err != nil {
				return err
			}
			k, err := kind.Parse(key)
			if err != nil {
				return err
			}
			ctx, err := flags.loggerContext(logOut)
			if err != nil {
				return err
			}
			st, err := flags.open(ctx, bolt.WithReadOnly)
			if err != nil {
				return err
			}
			defer st.Close()

			return getValue(ctx, st, []byte(bucket), k, out)
		},
	})
}

func getValue(ctx context.Context, st kv.Store, bucket, key []byte, out io.Writer) error {
	return st.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return fmt.Errorf("bucket %q: %w", bucket, err)
		}
		v, err := b.Get(key)
		if err != nil {
			return fmt.Errorf("key %x: %w", key, err)
		}
		logger.FromContext(ctx).Debug("Read value", zap.ByteString("bucket", bucket), zap.Int("size", len(v)))
		fmt.Fprintf(out, "%s\n", v)
		return nil
	})
}

func newStatsCommand(out, logOut io.Writer) (*cobra.Command, error) {
	var flags storeFlags
	return cli.NewCommand(viper.New(), &cli.Program{
		Name:      "stats",
		Short:     "Print store metrics in the prometheus text format",
		EnvPrefix: envPrefix,
		Opts:      flags.opts(),
		Run: func() error {
			ctx, err := flags.loggerContext(logOut)
			if err != nil {
				return err
			}
			st, err := flags.open(ctx, bolt.WithReadOnly)
			if err != nil {
				return err
			}
			defer st.Close()

			return writeStats(st, out)
		},
	})
}

func writeStats(c prometheus.Collector, out io.Writer) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return err
		}
	}
	return nil
}

func newNextIDCommand(out, logOut io.Writer) (*cobra.Command, error) {
	var (
		flags     storeFlags
		source    string
		machineID int
	)
	opts := append(flags.opts(),
		cli.Opt{
			DestP:   &source,
			Flag:    "id-source",
			Default: "sequence",
			Desc:    "where ids come from: sequence (the store's persistent counter) or snowflake",
		},
		cli.Opt{
			DestP:   &machineID,
			Flag:    "machine-id",
			Default: -1,
			Desc:    "snowflake machine id; a random one is used when negative",
		},
	)

	return cli.NewCommand(viper.New(), &cli.Program{
		Name:      "next-id",
		Short:     "Reserve and print the next auto-assigned id",
		EnvPrefix: envPrefix,
		Opts:      opts,
		Run: func() error {
			ctx, err := flags.loggerContext(logOut)
			if err != nil {
				return err
			}

			var storeOpts []kv.Option
			switch source {
			case "sequence":
			case "snowflake":
				var genOpts []snowflake.IDGeneratorOp
				if machineID >= 0 {
					genOpts = append(genOpts, snowflake.WithMachineID(machineID))
				}
				storeOpts = append(storeOpts, kv.WithIDGenerator(snowflake.NewIDGenerator(genOpts...)))
			default:
				return fmt.Errorf("unknown id source %q", source)
			}

			s, err := bolt.OpenRecordStore(ctx, logger.FromContext(ctx), flags.boltPath, nil, storeOpts...)
			if err != nil {
				return err
			}
			defer s.Close()

			id, err := s.NextID(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, id.String())
			return nil
		},
	})
}
