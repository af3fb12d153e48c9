package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/report"
)

var (
	showRaw    bool
	showJSON   bool
	rawLimit   int
	historyMax int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the slop list from the last checkpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if showRaw {
			raw := s.engine.GetRawLeaderboard()
			if rawLimit > 0 && len(raw) > rawLimit {
				raw = raw[:rawLimit]
			}
			if showJSON {
				return json.NewEncoder(out).Encode(raw)
			}
			fmt.Fprintln(out, renderRaw(raw))
			return nil
		}

		items := s.engine.GetSlopList()
		if showJSON {
			data, err := report.Encode(items)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		fmt.Fprintln(out, renderSlopList(items))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved mining snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		infos, err := s.store.History(ctx, historyMax)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderHistory(infos))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all phrase statistics and snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.Clear(ctx); err != nil {
			return err
		}
		s.engine.ClearAll()
		s.engine.Refresh()
		fmt.Fprintln(cmd.OutOrStdout(), "frequency data cleared")
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().BoolVar(&showRaw, "raw", false, "Dump every scored phrase instead of the slop list")
	leaderboardCmd.Flags().BoolVar(&showJSON, "json", false, "Print JSON instead of a table")
	leaderboardCmd.Flags().IntVar(&rawLimit, "top", 50, "Rows to show with --raw (0 for all)")
	historyCmd.Flags().IntVar(&historyMax, "limit", 20, "Snapshots to list (0 for all)")
}
