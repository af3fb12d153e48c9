package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
)

// Publisher hands the slop list to whatever consumes it.
type Publisher interface {
	Publish(items []leaderboard.SlopItem) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(items []leaderboard.SlopItem) error

// Publish calls f.
func (f PublisherFunc) Publish(items []leaderboard.SlopItem) error { return f(items) }

// Encode renders items as the JSON array consumers read. A nil list encodes
// as [].
func Encode(items []leaderboard.SlopItem) ([]byte, error) {
	if items == nil {
		items = []leaderboard.SlopItem{}
	}
	return json.Marshal(items)
}

// WriterPublisher writes one JSON array per publish, newline terminated.
type WriterPublisher struct {
	W io.Writer
}

// Publish implements Publisher.
func (p WriterPublisher) Publish(items []leaderboard.SlopItem) error {
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("encode slop list: %w", err)
	}
	if _, err := p.W.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write slop list: %w", err)
	}
	return nil
}

// FilePublisher replaces a JSON file on every publish. Readers never see a
// partial file.
type FilePublisher struct {
	Path string
}

// Publish implements Publisher.
func (p FilePublisher) Publish(items []leaderboard.SlopItem) error {
	data, err := Encode(items)
	if err != nil {
		return fmt.Errorf("encode slop list: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.Path), ".slop-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return fmt.Errorf("replace %s: %w", p.Path, err)
	}
	return nil
}
