package convert

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	yaml "gopkg.in/yaml.v3"

	"symconv/config"
	"symconv/record"
)

func TestListRecords(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sym10.xml", "sym2.xml", "sym1.xml", "notes.txt", "sym3.XML"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "dir.xml"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := listRecords(dir)
	if err != nil {
		t.Fatalf("listRecords() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "sym1.xml"),
		filepath.Join(dir, "sym2.xml"),
		filepath.Join(dir, "sym10.xml"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("listRecords() = %v, want %v", files, want)
	}

	if _, err := listRecords(filepath.Join(dir, "absent")); err == nil {
		t.Error("expected error for absent directory")
	}
}

func TestProcess(t *testing.T) {
	_, env := setupTestEnv(t)
	tr := newTree(t)
	tr.configure(env.Cfg)

	tr.write(t, tr.input, "sym10.xml", recordXML("ISO7000-0010", "2004-01-15"))
	tr.write(t, tr.input, "sym2.xml", recordXML("ISO7000-0002", "2004-1-5"))
	tr.write(t, tr.input, "sym1.xml", recordXML("ISO7000-0001", "2004-01-01"))
	tr.write(t, tr.input, "icon.png", "png bytes")
	tr.write(t, tr.preview, "ISO7000-0001.gif", "GIF89a")

	core, logs := observer.New(zapcore.InfoLevel)
	count, err := Process(context.Background(), env.Cfg, nil, zap.New(core))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Process() = %d, want 3", count)
	}
	if got := tr.outputs(t); len(got) != 3 {
		t.Fatalf("got %d output files, want 3: %v", len(got), got)
	}

	var order []string
	for _, e := range logs.FilterMessage("Record converted").All() {
		order = append(order, e.ContextMap()["from"].(string))
	}
	if want := []string{"sym1", "sym2", "sym10"}; !reflect.DeepEqual(order, want) {
		t.Errorf("processing order = %v, want %v", order, want)
	}

	src, err := record.Read(filepath.Join(tr.input, "sym1.xml"))
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(tr.output, src.ID+".yaml"))
	if err != nil {
		t.Fatalf("output for sym1 not found: %v", err)
	}
	var doc struct {
		ID           string `yaml:"id"`
		DateAccepted Date   `yaml:"dateAccepted"`
		Status       string `yaml:"status"`
		Data         struct {
			Identifier  string                  `yaml:"identifier"`
			Description map[string]string       `yaml:"description"`
			Keywords    map[string][]string     `yaml:"keywords"`
			Function    []string                `yaml:"function"`
			Authors     []string                `yaml:"authors"`
			Form        map[string]any          `yaml:"form"`
			Attachments map[string]*attachEntry `yaml:"attachments"`
		} `yaml:"data"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unable to read output: %v", err)
	}

	if doc.ID != src.ID || doc.Status != StatusValid || doc.DateAccepted.String() != "2004-01-01" {
		t.Errorf("header = %q %q %s", doc.ID, doc.Status, doc.DateAccepted)
	}
	if doc.Data.Identifier != "ISO7000-0001" {
		t.Errorf("identifier = %q", doc.Data.Identifier)
	}
	if doc.Data.Description["eng"] != "A legacy symbol." {
		t.Errorf("description = %v", doc.Data.Description)
	}
	if !reflect.DeepEqual(doc.Data.Keywords["eng"], []string{"hearing"}) {
		t.Errorf("keywords = %v", doc.Data.Keywords)
	}
	if !reflect.DeepEqual(doc.Data.Function, []string{"warning"}) {
		t.Errorf("function = %v", doc.Data.Function)
	}
	if doc.Data.Authors == nil || len(doc.Data.Authors) != 0 {
		t.Errorf("authors = %#v, want empty list", doc.Data.Authors)
	}
	if size, ok := doc.Data.Form["size"].(map[string]any); !ok || size["eng"] != "10 mm" {
		t.Errorf("form = %v", doc.Data.Form)
	}
	atts := doc.Data.Attachments
	if len(atts) != 3 {
		t.Fatalf("attachments = %v", atts)
	}
	if atts["icon.png"] == nil || atts["icon.png"].Mime != "image/png" {
		t.Errorf("icon.png = %+v", atts["icon.png"])
	}
	if e, ok := atts["absent.svg"]; !ok || e != nil {
		t.Errorf("absent.svg = %+v, %v", e, ok)
	}
	if atts["ISO7000-0001.gif"] == nil || atts["ISO7000-0001.gif"].Mime != "image/gif" {
		t.Errorf("preview = %+v", atts["ISO7000-0001.gif"])
	}
}

type attachEntry struct {
	Mime     string `yaml:"mime"`
	Data     string `yaml:"data"`
	Encoding string `yaml:"encoding"`
}

func TestProcess_StopsOnFirstError(t *testing.T) {
	_, env := setupTestEnv(t)
	tr := newTree(t)
	tr.configure(env.Cfg)

	tr.write(t, tr.input, "a1.xml", recordXML("A1", "2004-01-15"))
	tr.write(t, tr.input, "a2.xml", recordXML("A2", ""))
	tr.write(t, tr.input, "a3.xml", recordXML("A3", "2004-01-15"))

	count, err := Process(context.Background(), env.Cfg, nil, env.Log)
	var me *record.MissingFieldError
	if !errors.As(err, &me) {
		t.Fatalf("Process() error = %v, want MissingFieldError", err)
	}
	if me.Field != "Date_Released" {
		t.Errorf("missing field = %q", me.Field)
	}
	if count != 1 {
		t.Errorf("Process() = %d, want 1", count)
	}
	if got := tr.outputs(t); len(got) != 1 {
		t.Errorf("got %d output files, want 1: %v", len(got), got)
	}
}

func TestProcess_Errors(t *testing.T) {
	t.Run("malformed record", func(t *testing.T) {
		_, env := setupTestEnv(t)
		tr := newTree(t)
		tr.configure(env.Cfg)
		tr.write(t, tr.input, "bad.xml", "<Symbol><ID>x</Symbol>")

		_, err := Process(context.Background(), env.Cfg, nil, env.Log)
		var pe *record.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Process() error = %v, want ParseError", err)
		}
	})
	t.Run("bad date", func(t *testing.T) {
		_, env := setupTestEnv(t)
		tr := newTree(t)
		tr.configure(env.Cfg)
		tr.write(t, tr.input, "a.xml", recordXML("A", "15.01.2004"))

		_, err := Process(context.Background(), env.Cfg, nil, env.Log)
		var de *record.DateError
		if !errors.As(err, &de) {
			t.Fatalf("Process() error = %v, want DateError", err)
		}
	})
	t.Run("extra mime mapping", func(t *testing.T) {
		_, env := setupTestEnv(t)
		tr := newTree(t)
		tr.configure(env.Cfg)
		tr.write(t, tr.input, "a.xml", recordXML("A", "2004-01-15"))
		tr.write(t, tr.input, "icon.png", "png")
		tr.write(t, tr.input, "absent.svg", "svg")
		env.Cfg.Attachments.MimeTypes = map[string]string{".svg": "image/svg+xml"}

		if _, err := Process(context.Background(), env.Cfg, nil, env.Log); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	})
	t.Run("canceled", func(t *testing.T) {
		_, env := setupTestEnv(t)
		tr := newTree(t)
		tr.configure(env.Cfg)
		tr.write(t, tr.input, "a.xml", recordXML("A", "2004-01-15"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		count, err := Process(ctx, env.Cfg, nil, env.Log)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Process() error = %v, want context.Canceled", err)
		}
		if count != 0 || len(tr.outputs(t)) != 0 {
			t.Errorf("canceled run produced output")
		}
	})
}

func TestProcess_Empty(t *testing.T) {
	_, env := setupTestEnv(t)
	tr := newTree(t)
	tr.configure(env.Cfg)

	count, err := Process(context.Background(), env.Cfg, nil, env.Log)
	if err != nil || count != 0 {
		t.Errorf("Process() = %d, %v", count, err)
	}
}

func TestProcess_RecordsDir(t *testing.T) {
	_, env := setupTestEnv(t)
	tr := newTree(t)
	tr.configure(env.Cfg)
	env.Cfg.Source.RecordsDir = "records"
	if err := os.Mkdir(filepath.Join(tr.input, "records"), 0755); err != nil {
		t.Fatal(err)
	}
	tr.write(t, filepath.Join(tr.input, "records"), "a.xml", recordXML("A", "2004-01-15"))
	tr.write(t, tr.input, "ignored.xml", "not a record")

	count, err := Process(context.Background(), env.Cfg, nil, env.Log)
	if err != nil || count != 1 {
		t.Errorf("Process() = %d, %v", count, err)
	}
}

func TestProcess_Report(t *testing.T) {
	_, env := setupTestEnv(t)
	tr := newTree(t)
	tr.configure(env.Cfg)
	tr.write(t, tr.input, "a.xml", recordXML("A", "2004-01-15"))

	rpt, err := (&config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}).Prepare()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Process(context.Background(), env.Cfg, rpt, env.Log); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(rpt.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
		if f.Name == "source/0001-a.xml" {
			r, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			data, _ := io.ReadAll(r)
			r.Close()
			if string(data) != recordXML("A", "2004-01-15") {
				t.Errorf("stored source differs:\n%s", data)
			}
		}
	}
	if !names["source/0001-a.xml"] {
		t.Errorf("report has no source record: %v", names)
	}
	if outs := tr.outputs(t); len(outs) != 1 || !names["result/"+outs[0]] {
		t.Errorf("report has no result: %v", names)
	}
}

func newConvertCmd() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Action:    Run,
		Writer:    io.Discard,
		ErrWriter: io.Discard,
	}
}

func TestRun(t *testing.T) {
	ctx, env := setupTestEnv(t)
	tr := newTree(t)
	tr.write(t, tr.input, "a.xml", recordXML("A", "2004-01-15"))

	if err := newConvertCmd().Run(ctx, []string{"convert", tr.input, tr.output}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.Cfg.Source.InputDir != tr.input || env.Cfg.Destination.OutputDir != tr.output {
		t.Errorf("command line was not applied: %+v %+v", env.Cfg.Source, env.Cfg.Destination)
	}
	if got := tr.outputs(t); len(got) != 1 {
		t.Errorf("got %d output files, want 1", len(got))
	}
}

func TestRun_NoInput(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	if err := newConvertCmd().Run(ctx, []string{"convert"}); err == nil {
		t.Error("expected error without input directory")
	}
	if err := newConvertCmd().Run(ctx, []string{"convert", filepath.Join(t.TempDir(), "absent"), t.TempDir()}); err == nil {
		t.Error("expected error for absent input directory")
	}
}
