package core

import (
	"testing"

	"github.com/hikarime/stashbot/database"
)

func TestApplyFilters(t *testing.T) {
	filters := []database.FilenameFilter{
		{Pattern: "[SomeGroup]"},
		{Pattern: "1080p|FHD"},
	}
	cases := []struct {
		in, want string
	}{
		{"[SomeGroup] movie 1080p.mkv", "movie FHD.mkv"},
		{"plain.mp4", "plain.mp4"},
		{"[SomeGroup][SomeGroup]x", "x"},
		{"1080p", "FHD"},
	}
	for _, c := range cases {
		if got := ApplyFilters(c.in, filters); got != c.want {
			t.Errorf("ApplyFilters(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestApplyFiltersNoFilters(t *testing.T) {
	if got := ApplyFilters("keep.bin", nil); got != "keep.bin" {
		t.Errorf("ApplyFilters without filters changed the name: %q", got)
	}
}
