package norm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "uppercase with query and fragment",
			in:   "HTTPS://WWW.Example.com/path/?q=1#frag",
			want: "https://example.com/path",
		},
		{
			name: "trailing slashes stripped repeatedly",
			in:   "http://example.com///",
			want: "http://example.com",
		},
		{
			name: "www stripped after scheme only",
			in:   "https://www.example.com",
			want: "https://example.com",
		},
		{
			name: "www in the middle is kept",
			in:   "https://sub.www.example.com",
			want: "https://sub.www.example.com",
		},
		{
			name: "scheme-less input",
			in:   "  Example.COM/page/?x=2  ",
			want: "example.com/page",
		},
		{
			name: "scheme-less www is kept",
			in:   "www.example.com/",
			want: "www.example.com",
		},
		{
			name: "bare scheme keeps its slashes",
			in:   "http://",
			want: "http://",
		},
		{
			name: "fragment only",
			in:   "https://example.com#top",
			want: "https://example.com",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"HTTPS://WWW.Example.com/path/?q=1#frag",
		"http://example.com///",
		"http://",
		"chrome://settings/",
		"www.example.com",
		"  mixed Case No Scheme/path//  ",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
