package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"symconv/config"
)

// Sink writes documents into output directory, one file per document named
// after document id. Existing files are overwritten.
type Sink struct {
	dir string
	ext string
}

// NewSink makes sure output directory exists.
func NewSink(conf *config.DestinationConfig) (*Sink, error) {
	if err := os.MkdirAll(conf.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}
	return &Sink{dir: conf.OutputDir, ext: conf.Extension}, nil
}

// Path returns destination file name for document id.
func (s *Sink) Path(id string) string {
	return filepath.Join(s.dir, id+s.ext)
}

// Write serializes document in memory first and then writes it out.
func (s *Sink) Write(doc *Document) (string, error) {
	buf := new(bytes.Buffer)
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("unable to serialize document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("unable to serialize document: %w", err)
	}

	name := s.Path(doc.ID)
	if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("unable to write document: %w", err)
	}
	return name, nil
}
