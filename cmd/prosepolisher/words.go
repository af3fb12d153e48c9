package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/config"
	"github.com/leandrojofre/prosepolisher/pkg/polisher/stoplist"
)

var wordList string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the settings in effect as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.Loader{ConfigPath: configPath, LemmaPath: lemmaPath}
		comp, err := loader.Load()
		if err != nil {
			return err
		}
		data, err := comp.Config.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words [word...]",
	Short: "Explain how words are lemmatized and filtered",
	Long: `words prints the lemma, the known forms and the filter class of each
argument. Without arguments it summarizes the word lists in use; --list prints
one of them in full.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.Loader{ConfigPath: configPath, LemmaPath: lemmaPath}
		comp, err := loader.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		switch wordList {
		case "":
		case "common":
			fmt.Fprintln(out, strings.Join(stoplist.CommonWords(), "\n"))
			return nil
		case "names":
			fmt.Fprintln(out, strings.Join(stoplist.Names(), "\n"))
			return nil
		case "whitelist":
			fmt.Fprintln(out, strings.Join(comp.Filter.Whitelist(), "\n"))
			return nil
		default:
			return fmt.Errorf("unknown list %q (want common, names or whitelist)", wordList)
		}

		if len(args) == 0 {
			stats := comp.Lexicon.Stats()
			fmt.Fprintf(out, "lemmas:       %d (%d forms)\n", stats.Lemmas, stats.Forms)
			fmt.Fprintf(out, "common words: %d\n", len(stoplist.CommonWords()))
			fmt.Fprintf(out, "names:        %d\n", len(stoplist.Names()))
			fmt.Fprintf(out, "whitelist:    %s\n", strings.Join(comp.Filter.Whitelist(), ", "))
			return nil
		}

		for _, word := range args {
			word = strings.ToLower(word)
			fmt.Fprintf(out, "%s\tlemma=%s\tforms=%s\tclass=%s\n",
				word,
				comp.Lexicon.Lemma(word),
				strings.Join(comp.Lexicon.Forms(word), ","),
				wordClass(comp.Filter, word))
		}
		return nil
	},
}

func wordClass(f *stoplist.Filter, word string) string {
	for _, w := range f.Whitelist() {
		if w == word {
			return "whitelisted"
		}
	}
	switch {
	case f.IsExcluded(word):
		return "name"
	case f.IsCommon(word):
		return "common"
	default:
		return "content"
	}
}

func init() {
	wordsCmd.Flags().StringVar(&wordList, "list", "", "Print a whole list: common, names or whitelist")
}
