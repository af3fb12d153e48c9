package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
)

func TestEncodeNil(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestWriterPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := WriterPublisher{W: &buf}

	require.NoError(t, p.Publish([]leaderboard.SlopItem{sample}))
	require.NoError(t, p.Publish(nil))

	assert.Equal(t, `[{"type":"phrase","phrase":"crooked smile","score":4}]`+"\n[]\n", buf.String())
}

func TestFilePublisher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "slop.json")
	p := FilePublisher{Path: path}

	require.NoError(t, p.Publish([]leaderboard.SlopItem{sample}))
	require.NoError(t, p.Publish([]leaderboard.SlopItem{sample, sample}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []leaderboard.SlopItem
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFilePublisherMissingDir(t *testing.T) {
	p := FilePublisher{Path: filepath.Join(t.TempDir(), "missing", "slop.json")}
	assert.Error(t, p.Publish(nil))
}

func TestPublisherFunc(t *testing.T) {
	var got int
	var p Publisher = PublisherFunc(func(items []leaderboard.SlopItem) error {
		got = len(items)
		return nil
	})
	require.NoError(t, p.Publish([]leaderboard.SlopItem{sample}))
	assert.Equal(t, 1, got)
}
