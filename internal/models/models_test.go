package models

import "testing"

func TestParseItemType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  ItemType
	}{
		{"DeepWork", ItemTypeDeepWork},
		{"Deep Work", ItemTypeDeepWork},
		{"deep_work", ItemTypeDeepWork},
		{"deep-work", ItemTypeDeepWork},
		{"Creative", ItemTypeCreative},
		{"SHALLOW", ItemTypeShallow},
		{"Break", ItemTypeBreak},
		{"Unknown", ItemTypeUnknown},
		{"Meeting", ItemTypeUnknown},
		{"", ItemTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			if got := ParseItemType(tt.label); got != tt.want {
				t.Errorf("ParseItemType(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestClampEnergy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want Energy
	}{
		{-3, MinEnergy},
		{0, MinEnergy},
		{1, 1},
		{7, 7},
		{10, 10},
		{11, MaxEnergy},
	}
	for _, tt := range tests {
		if got := ClampEnergy(tt.in); got != tt.want {
			t.Errorf("ClampEnergy(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if !ClampEnergy(tt.in).Valid() {
			t.Errorf("ClampEnergy(%d) produced invalid energy", tt.in)
		}
	}
}

func TestParseMood(t *testing.T) {
	t.Parallel()

	for _, m := range Moods {
		got, err := ParseMood(string(m))
		if err != nil || got != m {
			t.Errorf("ParseMood(%q) = %q, %v", m, got, err)
		}
	}

	got, err := ParseMood("  happy ")
	if err != nil || got != MoodHappy {
		t.Errorf("ParseMood(\"  happy \") = %q, %v, want Happy", got, err)
	}

	if _, err := ParseMood("Angry"); err == nil {
		t.Error("ParseMood(\"Angry\") expected error")
	}
}

func TestTaskTexts(t *testing.T) {
	t.Parallel()

	got := TaskTexts([]Task{{Text: "Write report"}, {Text: "Exercise"}})
	if len(got) != 2 || got[0] != "Write report" || got[1] != "Exercise" {
		t.Errorf("TaskTexts() = %v", got)
	}
	if got := TaskTexts(nil); len(got) != 0 {
		t.Errorf("TaskTexts(nil) = %v, want empty", got)
	}
}
