package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leandrojofre/prosepolisher/internal/chatlog"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch <chat.jsonl>",
	Short: "Score new messages as they are appended to a chat export",
	Long: `watch follows a chat export and scores each new generated message with
the live cadence: periodic decay, periodic mining passes and a throttled
slop list refresh. Edits to the settings file are applied without restarting.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		w := &chatWatcher{session: s, chatPath: args[0]}
		return w.run(ctx)
	},
}

type chatWatcher struct {
	*session
	chatPath string

	// entries already scored
	seen int
}

func (w *chatWatcher) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch directories: editors and exporters replace files by rename.
	dirs := map[string]struct{}{filepath.Dir(w.chatPath): {}}
	if configPath != "" {
		dirs[filepath.Dir(configPath)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if err := w.skipExisting(); err != nil {
		return err
	}
	logger.Info("watching chat",
		zap.String("chat", w.chatPath),
		zap.Int("existing", w.seen),
		zap.Int("restored_messages", w.engine.MessageCount()))

	for {
		select {
		case <-ctx.Done():
			w.engine.Refresh()
			return w.engine.Checkpoint(context.Background(), w.store)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(ev.Name)
			switch {
			case name == filepath.Clean(w.chatPath):
				w.scoreNew(ctx)
			case configPath != "" && name == filepath.Clean(configPath):
				w.reloadConfig()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// skipExisting marks the messages already in the export as seen. They are
// either part of the restored checkpoint or meant for the analyze command.
func (w *chatWatcher) skipExisting() error {
	entries, err := chatlog.LoadFromJSONL(w.chatPath, logger)
	if err != nil {
		logger.Debug("chat not readable yet", zap.Error(err))
		return nil
	}
	w.seen = len(entries)
	return nil
}

func (w *chatWatcher) scoreNew(ctx context.Context) {
	entries, err := chatlog.LoadFromJSONL(w.chatPath, logger)
	if err != nil {
		logger.Warn("reading chat failed", zap.Error(err))
		return
	}
	if len(entries) < w.seen {
		logger.Info("chat shrank, starting over", zap.Int("was", w.seen), zap.Int("now", len(entries)))
		w.seen = 0
	}

	scored := 0
	for _, msg := range chatlog.Messages(entries[w.seen:]) {
		if msg.FromUser || msg.Text == "" {
			continue
		}
		w.engine.Observe(msg.Text)
		scored++
	}
	w.seen = len(entries)
	if scored == 0 {
		return
	}

	logger.Debug("scored new messages", zap.Int("count", scored), zap.Int("total", w.engine.MessageCount()))
	if err := w.engine.Checkpoint(ctx, w.store); err != nil {
		logger.Error("checkpoint failed", zap.Error(err))
	}
}

func (w *chatWatcher) reloadConfig() {
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Warn("keeping previous settings", zap.Error(err))
		return
	}
	if lemmaPath != "" {
		cfg.LemmaPath = lemmaPath
	}
	if err := w.engine.SetConfig(cfg); err != nil {
		logger.Warn("keeping previous settings", zap.Error(err))
	}
}
