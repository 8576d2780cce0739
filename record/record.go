// Package record reads catalogue XML records and normalizes their content.
package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// Source is a parsed record.
type Source struct {
	Path string
	// Name is file name without extension.
	Name string
	// ID is content derived identity, see Identity.
	ID   string
	Root *etree.Element
}

// Read parses XML record file and computes its identity.
func Read(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ParseError{File: path, Err: errors.New("document has no root element")}
	}

	id, err := Identity(root)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}

	base := filepath.Base(path)
	return &Source{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
		ID:   id,
		Root: root,
	}, nil
}
