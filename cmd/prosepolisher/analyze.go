package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leandrojofre/prosepolisher/internal/chatlog"
)

var analyzeLimit int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <chat.jsonl>",
	Short: "Rebuild all phrase statistics from a chat export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := chatlog.LoadFromJSONL(args[0], logger)
		if err != nil {
			return err
		}

		limit := s.comp.Resolved.MessageLimit
		if cmd.Flags().Changed("limit") {
			limit = analyzeLimit
		}

		res, err := s.engine.BulkAnalyze(ctx, chatlog.Messages(entries), limit)
		if err != nil {
			return err
		}
		logger.Info("analysis finished",
			zap.Int("analyzed", res.Analyzed),
			zap.Int("skipped", res.Skipped),
			zap.Int("pruned", res.Pruned),
			zap.Duration("took", res.Duration))

		if err := s.engine.Checkpoint(ctx, s.store); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderSlopList(s.engine.GetSlopList()))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeLimit, "limit", "n", -1, "Only analyze the last N messages (-1 for all)")
}
