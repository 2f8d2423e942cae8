package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/guidecrawl"
	"github.com/fwojciec/guidecrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: JSON Output
// Records are written as indented JSON, one file per platform plus a
// consolidated file.

func TestWriter_SavePlatform(t *testing.T) {
	t.Parallel()

	// Given a writer targeting a directory that does not exist yet
	dir := filepath.Join(t.TempDir(), "cdp_data")
	w := fs.NewWriter(dir)

	// When I save a platform's records
	records := []*guidecrawl.PageRecord{{
		URL:      "https://segment.com/docs/",
		Title:    "Docs",
		Platform: "segment",
		Category: "Docs",
		Content:  "How to set up a source",
		HTML:     "<main>How to set up a source</main>",
	}}
	err := w.SavePlatform(context.Background(), "segment", records)
	require.NoError(t, err)

	// Then the file holds the records with unescaped HTML and 2-space indent
	data, err := os.ReadFile(filepath.Join(dir, "segment_howto.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"html": "<main>How to set up a source</main>"`)
	assert.Contains(t, string(data), "\n  {\n    \"url\": ")

	var got []*guidecrawl.PageRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, records, got)
}

func TestWriter_SavePlatform_Empty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir)

	err := w.SavePlatform(context.Background(), "lytics", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "lytics_howto.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestWriter_SavePlatform_Replaces(t *testing.T) {
	t.Parallel()

	// Given a platform file from a previous run
	dir := t.TempDir()
	w := fs.NewWriter(dir)
	first := []*guidecrawl.PageRecord{{URL: "https://a.example.com/docs/1"}, {URL: "https://a.example.com/docs/2"}}
	require.NoError(t, w.SavePlatform(context.Background(), "a", first))

	// When I save a shorter result
	second := []*guidecrawl.PageRecord{{URL: "https://a.example.com/docs/3"}}
	require.NoError(t, w.SavePlatform(context.Background(), "a", second))

	// Then only the new records remain and no temp files are left behind
	data, err := os.ReadFile(filepath.Join(dir, "a_howto.json"))
	require.NoError(t, err)
	var got []*guidecrawl.PageRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, second, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriter_SavePlatform_RequiresName(t *testing.T) {
	t.Parallel()

	err := fs.NewWriter(t.TempDir()).SavePlatform(context.Background(), "", nil)

	assert.Equal(t, guidecrawl.EINVALID, guidecrawl.ErrorCode(err))
}

func TestWriter_SaveAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewWriter(dir)
	all := map[string][]*guidecrawl.PageRecord{
		"segment": {{URL: "https://segment.com/docs/", Platform: "segment"}},
		"lytics":  {},
	}

	require.NoError(t, w.SaveAll(context.Background(), all))

	data, err := os.ReadFile(filepath.Join(dir, fs.ConsolidatedFile))
	require.NoError(t, err)
	var got map[string][]*guidecrawl.PageRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, all, got)
	assert.Contains(t, string(data), `"lytics": []`)
}

func TestPlatformFile(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "zeotap_howto.json", fs.PlatformFile("zeotap"))
}
