package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"symconv/config"
	"symconv/state"
)

func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

// tree is temporary catalogue export: records and attachments under input,
// preview images in sibling directory.
type tree struct {
	input   string
	preview string
	output  string
}

func newTree(t *testing.T) tree {
	t.Helper()
	root := t.TempDir()
	tr := tree{
		input:   filepath.Join(root, "input"),
		preview: filepath.Join(root, "preview"),
		output:  filepath.Join(root, "out"),
	}
	for _, d := range []string{tr.input, tr.preview} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return tr
}

func (tr tree) configure(cfg *config.Config) {
	cfg.Source.InputDir = tr.input
	cfg.Destination.OutputDir = tr.output
}

func (tr tree) write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func (tr tree) outputs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(tr.output)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// recordXML returns record text, release date element is omitted when date
// is empty.
func recordXML(identifier, date string) string {
	released := ""
	if len(date) > 0 {
		released = fmt.Sprintf("\n  <Date_Released>%s</Date_Released>", date)
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Symbol>
  <ID>%s</ID>%s
  <CR>x</CR>
  <Category>c</Category>
  <Modified>2010-01-01</Modified>
  <Title_EN>Title of %s</Title_EN>
  <Description_EN><text>[</text><text>A legacy symbol.</text><text>]</text></Description_EN>
  <Keywords_EN>hearing</Keywords_EN>
  <FormSize_EN>10 mm</FormSize_EN>
  <Function>warning</Function>
  <Attachments><text>icon.png</text><text>absent.svg</text></Attachments>
</Symbol>
`, identifier, released, identifier)
}
