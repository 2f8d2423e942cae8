// Package fs provides file-based storage for crawl results and platform
// configuration.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/guidecrawl"
)

// Output file names.
const (
	PlatformFileSuffix = "_howto.json"
	ConsolidatedFile   = "all_cdp_guides.json"
)

// PlatformFile returns the file name holding one platform's records.
func PlatformFile(platform string) string {
	return platform + PlatformFileSuffix
}

// Ensure Writer implements guidecrawl.RecordStore at compile time.
var _ guidecrawl.RecordStore = (*Writer)(nil)

// Writer saves records as indented JSON files in a directory.
// Each file is replaced atomically, so readers never see a partial file.
type Writer struct {
	dir string
}

// NewWriter creates a new Writer that writes to dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// SavePlatform writes records to {platform}_howto.json.
func (w *Writer) SavePlatform(_ context.Context, platform string, records []*guidecrawl.PageRecord) error {
	if platform == "" {
		return guidecrawl.Errorf(guidecrawl.EINVALID, "platform name required")
	}
	if records == nil {
		records = []*guidecrawl.PageRecord{}
	}
	return w.writeJSON(PlatformFile(platform), records)
}

// SaveAll writes the results of every platform, keyed by platform name, to
// all_cdp_guides.json.
func (w *Writer) SaveAll(_ context.Context, all map[string][]*guidecrawl.PageRecord) error {
	if all == nil {
		all = map[string][]*guidecrawl.PageRecord{}
	}
	return w.writeJSON(ConsolidatedFile, all)
}

// writeJSON encodes v without HTML escaping so stored markup stays readable,
// then moves it into place.
func (w *Writer) writeJSON(name string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(w.dir, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
