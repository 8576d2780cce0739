// Package attach embeds files referenced by records as base64 encoded data.
package attach

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"symconv/config"
)

const encodingBase64 = "base64"

// Entry is embedded file content.
type Entry struct {
	Mime     string `yaml:"mime"`
	Data     string `yaml:"data"`
	Encoding string `yaml:"encoding"`
}

// Attachments maps file name to its content. Nil entry marks file which was
// referenced but not found.
type Attachments map[string]*Entry

// Embedder resolves attachment file names against input root and preview
// images against preview directory.
type Embedder struct {
	inputDir   string
	previewDir string
	mimes      Mimes
}

func New(src *config.SourceConfig, conf *config.AttachmentsConfig) *Embedder {
	return &Embedder{
		inputDir:   src.InputDir,
		previewDir: src.PreviewPath(),
		mimes:      NewMimes(conf.MimeTypes),
	}
}

// PreviewName returns name of preview image for the record identifier.
func PreviewName(identifier string) string {
	return identifier + ".gif"
}

// Embed reads every referenced file. Missing files produce nil entries,
// repeated names are reported and ignored. Preview image is added when it
// exists.
func (e *Embedder) Embed(identifier string, names []string, log *zap.Logger) (Attachments, error) {
	out := make(Attachments, len(names)+1)

	for _, name := range names {
		if _, seen := out[name]; seen {
			log.Warn("Duplicate attachment, ignoring", zap.String("identifier", identifier), zap.String("file", name))
			continue
		}
		entry, err := e.encode(filepath.Join(e.inputDir, filepath.FromSlash(name)), name, log)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			log.Debug("Attachment not found", zap.String("identifier", identifier), zap.String("file", name))
		}
		out[name] = entry
	}

	preview := PreviewName(identifier)
	entry, err := e.encode(filepath.Join(e.previewDir, preview), preview, log)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		if _, exists := out[preview]; exists {
			log.Debug("Preview image replaces attachment with the same name", zap.String("file", preview))
		}
		out[preview] = entry
	}
	return out, nil
}

// encode returns nil entry without error when path is not a regular file.
func (e *Embedder) encode(path, name string, log *zap.Logger) (*Entry, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to access attachment: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return nil, nil
	}

	mt, err := e.mimes.ByName(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read attachment: %w", err)
	}
	if detected := sniff(data); len(detected) > 0 && detected != mt {
		log.Debug("Attachment content does not match its extension", zap.String("file", name), zap.String("mime", mt), zap.String("detected", detected))
	}

	return &Entry{
		Mime:     mt,
		Data:     base64.StdEncoding.EncodeToString(data),
		Encoding: encodingBase64,
	}, nil
}
