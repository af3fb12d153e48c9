// Package chatlog reads chat exports written one JSON object per line.
package chatlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/leandrojofre/prosepolisher/pkg/polisher"
)

// Entry is one chat message. Lines without a "mes" field (the export
// header) are not entries.
type Entry struct {
	Name     string  `json:"name"`
	Mes      *string `json:"mes"`
	IsUser   bool    `json:"is_user"`
	IsSystem bool    `json:"is_system"`
}

// Text returns the message body.
func (e Entry) Text() string {
	if e.Mes == nil {
		return ""
	}
	return *e.Mes
}

// LoadFromJSONL loads entries from a JSONL chat export. Malformed lines are
// logged and skipped.
func LoadFromJSONL(path string, logger *zap.Logger) ([]Entry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chat %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Read(f, logger.With(zap.String("file", path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Read parses a JSONL chat export.
func Read(r io.Reader, logger *zap.Logger) ([]Entry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read chat: %w", err)
	}

	var entries []Entry
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			logger.Warn("skipping malformed chat line", zap.Int("line", i+1), zap.Error(err))
			continue
		}
		if e.Mes == nil {
			continue
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no chat messages found")
	}
	return entries, nil
}

// Messages converts entries for bulk analysis. System notes count as host
// messages and are never scored.
func Messages(entries []Entry) []polisher.Message {
	out := make([]polisher.Message, len(entries))
	for i, e := range entries {
		out[i] = polisher.Message{
			Text:     e.Text(),
			FromUser: e.IsUser || e.IsSystem,
		}
	}
	return out
}
