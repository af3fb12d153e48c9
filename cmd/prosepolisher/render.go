package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/store"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Width(8).Align(lipgloss.Right)
	patternStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	variantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	emptyStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderSlopList(items []leaderboard.SlopItem) string {
	if len(items) == 0 {
		return emptyStyle.Render("no repetitive phrases above the threshold")
	}

	rows := []string{headerStyle.Render(fmt.Sprintf("%8s  %s", "SCORE", "PHRASE"))}
	for _, it := range items {
		score := scoreStyle.Render(fmt.Sprintf("%.2f", it.Score))
		switch it.Type {
		case leaderboard.TypePattern:
			rows = append(rows, score+"  "+patternStyle.Render(it.Template+" …"))
			for _, v := range it.Variants {
				rows = append(rows, strings.Repeat(" ", 10)+variantStyle.Render("└ "+v))
			}
		default:
			rows = append(rows, score+"  "+it.Phrase)
		}
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderRaw(entries []leaderboard.RawEntry) string {
	if len(entries) == 0 {
		return emptyStyle.Render("no phrases scored yet")
	}
	rows := []string{headerStyle.Render(fmt.Sprintf("%8s  %s", "SCORE", "PHRASE"))}
	for _, e := range entries {
		rows = append(rows, scoreStyle.Render(fmt.Sprintf("%.2f", e.Score))+"  "+e.Phrase)
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderHistory(infos []store.SnapshotInfo) string {
	if len(infos) == 0 {
		return emptyStyle.Render("no snapshots saved")
	}
	rows := []string{headerStyle.Render(fmt.Sprintf("%-26s  %-20s  %8s  %8s  %7s", "SNAPSHOT", "CREATED", "MESSAGES", "PATTERNS", "PHRASES"))}
	for _, in := range infos {
		rows = append(rows, fmt.Sprintf("%-26s  %-20s  %8d  %8d  %7d",
			in.ID, in.CreatedAt.Local().Format("2006-01-02 15:04:05"), in.MessageCount, in.Patterns, in.Phrases))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
