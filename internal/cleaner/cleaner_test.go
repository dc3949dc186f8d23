package cleaner

import (
	"strings"
	"testing"
)

func TestSplitWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     []string
	}{
		{
			name:     "empty text",
			text:     "",
			maxWords: 10,
			want:     nil,
		},
		{
			name:     "under the limit",
			text:     "one two three",
			maxWords: 10,
			want:     []string{"one two three"},
		},
		{
			name:     "exact multiple",
			text:     "a b c d",
			maxWords: 2,
			want:     []string{"a b", "c d"},
		},
		{
			name:     "remainder window",
			text:     "a b c d e",
			maxWords: 2,
			want:     []string{"a b", "c d", "e"},
		},
		{
			name:     "whitespace normalized",
			text:     "  a \n b\tc  ",
			maxWords: 2,
			want:     []string{"a b", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWords(tt.text, tt.maxWords)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d windows %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("window %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitWordsPreservesOrder(t *testing.T) {
	words := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		words = append(words, "w")
	}
	windows := SplitWords(strings.Join(words, " "), chunkWords)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	total := 0
	for _, w := range windows {
		total += len(strings.Fields(w))
	}
	if total != 5000 {
		t.Errorf("windows hold %d words, want 5000", total)
	}
}

func TestStylesAllHavePrompts(t *testing.T) {
	for _, style := range Styles() {
		if _, ok := stylePrompts[style]; !ok {
			t.Errorf("style %q has no prompt", style)
		}
	}
}
