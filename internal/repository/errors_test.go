package repository

import (
	"reflect"
	"testing"
)

func TestTagsCSVConversion(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		csv  string
		back []string
	}{
		{"plain", []string{"smoke", "auth"}, "smoke,auth", []string{"smoke", "auth"}},
		{"trims whitespace", []string{" smoke ", "auth"}, "smoke,auth", []string{"smoke", "auth"}},
		{"drops empties", []string{"smoke", "", "  "}, "smoke", []string{"smoke"}},
		{"nil input", nil, "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinTags(tt.tags)
			if got != tt.csv {
				t.Errorf("joinTags(%v) = %q, want %q", tt.tags, got, tt.csv)
			}
			if back := splitTags(got); !reflect.DeepEqual(back, tt.back) {
				t.Errorf("splitTags(%q) = %v, want %v", got, back, tt.back)
			}
		})
	}
}

func TestSplitTagsStrayCommas(t *testing.T) {
	got := splitTags(",smoke,,auth,")
	want := []string{"smoke", "auth"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTags = %v, want %v", got, want)
	}
}
