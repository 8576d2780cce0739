package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"symconv/attach"
	"symconv/config"
	"symconv/record"
	"symconv/state"
)

const recordExt = ".xml"

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	// command line takes precedence over configuration
	if src := cmd.Args().Get(0); len(src) > 0 {
		env.Cfg.Source.InputDir = src
	}
	if dst := cmd.Args().Get(1); len(dst) > 0 {
		env.Cfg.Destination.OutputDir = dst
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	if err := absPaths(&env.Cfg.Source, &env.Cfg.Destination); err != nil {
		return err
	}
	if err := env.Cfg.Check(); err != nil {
		return err
	}

	log.Info("Processing starting",
		zap.String("source", env.Cfg.Source.RecordsPath()),
		zap.String("preview", env.Cfg.Source.PreviewPath()),
		zap.String("destination", env.Cfg.Destination.OutputDir))

	var count int
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Int("records", count), zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	count, err = Process(ctx, env.Cfg, env.Rpt, log)
	return err
}

func absPaths(src *config.SourceConfig, dst *config.DestinationConfig) (err error) {
	for _, p := range []*string{&src.InputDir, &src.PreviewDir, &dst.OutputDir} {
		if len(*p) == 0 {
			continue
		}
		if *p, err = filepath.Abs(*p); err != nil {
			return err
		}
	}
	return nil
}

// Process converts every record found in configured input directory, in
// natural file name order. First failure stops processing, documents
// converted before it stay in place. Returns number of converted records.
func Process(ctx context.Context, cfg *config.Config, rpt *config.Report, log *zap.Logger) (int, error) {
	files, err := listRecords(cfg.Source.RecordsPath())
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		log.Warn("Nothing to process", zap.String("dir", cfg.Source.RecordsPath()))
		return 0, nil
	}

	sink, err := NewSink(&cfg.Destination)
	if err != nil {
		return 0, err
	}
	emb := attach.New(&cfg.Source, &cfg.Attachments)

	count := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := processRecord(count+1, path, emb, sink, rpt, log); err != nil {
			return count, fmt.Errorf("unable to convert record (%s): %w", path, err)
		}
		count++
	}
	return count, nil
}

// listRecords returns record files in natural order.
func listRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to list records: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == recordExt {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	files := make([]string, len(names))
	for i, n := range names {
		files[i] = filepath.Join(dir, n)
	}
	return files, nil
}

func processRecord(seq int, path string, emb *attach.Embedder, sink *Sink, rpt *config.Report, log *zap.Logger) error {
	src, err := record.Read(path)
	if err != nil {
		return err
	}
	log = log.With(zap.String("id", src.ID))

	log.Debug("Conversion starting", zap.String("from", src.Name))
	doc, err := Convert(src, emb, log)
	if err != nil {
		return err
	}
	out, err := sink.Write(doc)
	if err != nil {
		return err
	}
	log.Info("Record converted", zap.String("from", src.Name), zap.String("to", out))

	// entry names in the report follow processing order
	rpt.Store(fmt.Sprintf("source/%04d-%s%s", seq, slug.Make(src.Name), recordExt), path)
	rpt.Store(fmt.Sprintf("result/%s", filepath.Base(out)), out)
	return nil
}
