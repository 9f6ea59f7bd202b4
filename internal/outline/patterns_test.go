package outline

import (
	"testing"

	"github.com/hyperjump/midashi/internal/models"
)

func TestMatchNumbering(t *testing.T) {
	tests := []struct {
		text      string
		wantLevel models.Level
		wantOK    bool
	}{
		{"1. Introduction", models.LevelH1, true},
		{"2.3 Methods", models.LevelH2, true},
		{"1.2.3 Details", models.LevelH3, true},
		{"1.2.3.4.5 Deep", models.LevelH4, true},
		{"3) Results", models.LevelH1, true},
		{"Chapter 4", models.LevelH1, true},
		{"Appendix 1", models.LevelH1, true},
		{"II. Background", models.LevelH1, true},
		{"(1) First item", models.LevelH2, true},
		{"A. Overview", models.LevelH2, true},
		{"b) Details", models.LevelH2, true},
		{"第一章 序論", models.LevelH1, true},
		{"第3節 手法", models.LevelH1, true},
		{"Introduction", 0, false},
		{"3.14 is roughly pi", models.LevelH2, true}, // numbering match; body filter handles this elsewhere
		{"", 0, false},
		{"1.", 0, false}, // number with no heading text
	}
	for _, tt := range tests {
		level, ok := MatchNumbering(tt.text)
		if ok != tt.wantOK {
			t.Errorf("MatchNumbering(%q): ok = %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if ok && level != tt.wantLevel {
			t.Errorf("MatchNumbering(%q): level = %v, want %v", tt.text, level, tt.wantLevel)
		}
	}
}

func TestIsBodyText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Introduction", false},
		{"2.1 Evaluation Setup", false},
		{"RELATED WORK", false},
		{"This sentence ends with a period.", true},
		{"trailing colon:", true},
		{"Visit https://example.com for details", true},
		{"contact us at info@example.com", true},
		{"Copyright 2024 Example Corp", true},
		{"The quick brown fox jumps", true},
		{"1. the following items are required", true},
		{"2024 12 31 40 17", true}, // digit-heavy page furniture
	}
	for _, tt := range tests {
		if got := isBodyText(tt.text); got != tt.want {
			t.Errorf("isBodyText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
	long := make([]byte, 130)
	for i := range long {
		long[i] = 'x'
	}
	if !isBodyText(string(long)) {
		t.Error("over-length text should be body text")
	}
}
