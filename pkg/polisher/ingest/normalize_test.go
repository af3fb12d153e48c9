package ingest

import "testing"

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \n\t ", ""},
		{"code fence", "Before.\n```go\nfmt.Println(1)\n```\nAfter.", "Before. After."},
		{"tilde fence", "A ~~~ hidden ~~~ B", "A B"},
		{"paired tag with content", "She smiled <thinking>plan the heist</thinking> softly.", "She smiled softly."},
		{"paired tag with attributes", `Hi <div class="x">gone</div> there`, "Hi there"},
		{"paired tag case-insensitive", "Hi <Note>gone</NOTE> there", "Hi there"},
		{"self-closing", `A <img src="a.png" /> B <br/> C`, "A B C"},
		{"straggler", "A <span> B", "A B"},
		{"entities", "Salt &amp; pepper", "Salt & pepper"},
		{"emphasis", "She was *very* _quiet_ and ~~odd~~.", "She was very quiet and odd."},
		{"quotes unwrapped", `He said "come here" and left.`, "He said come here and left."},
		{"smart quotes", "He said “come here” and left.", "He said come here and left."},
		{"parens unwrapped", "It was (almost) over.", "It was almost over."},
		{"collapse", "a   b\n\nc", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkup(tt.in); got != tt.want {
				t.Errorf("StripMarkup(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRemovePairedTagsUnclosed(t *testing.T) {
	got := removePairedTags("keep <b>this text")
	if got != "keep <b>this text" {
		t.Errorf("unclosed tag should be left for the straggler rule, got %q", got)
	}
}
