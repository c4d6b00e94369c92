package uploader

import "testing"

func TestPrettyTitle(t *testing.T) {
	tests := []struct {
		stem string
		want string
	}{
		{"intro", "Intro"},
		{"setup", "Setup"},
		{"getting_started-guide", "Getting Started Guide"},
		{"API_v2", "Api V2"},
		{"README", "Readme"},
		{"2nd-try", "2Nd Try"},
		{"don't_panic", "Don'T Panic"},
		{"été_notes", "Été Notes"},
		{"already Title", "Already Title"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			if got := PrettyTitle(tt.stem); got != tt.want {
				t.Errorf("PrettyTitle(%q) = %q, want %q", tt.stem, got, tt.want)
			}
		})
	}
}

func TestRootTitle(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"/tmp/work/docs", "Docs"},
		{"/tmp/work/my-docs/", "My-Docs"},
		{"release_notes", "Release_Notes"},
	}

	for _, tt := range tests {
		if got := RootTitle(tt.dir); got != tt.want {
			t.Errorf("RootTitle(%q) = %q, want %q", tt.dir, got, tt.want)
		}
	}
}
