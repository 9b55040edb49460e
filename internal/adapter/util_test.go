package adapter

import "testing"

func TestExtractText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Build services.</p>", "Build services."},
		{"&lt;p&gt;Encoded &amp;amp; escaped&lt;/p&gt;", "Encoded & escaped"},
		{"plain  text\n\twith   gaps", "plain text with gaps"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := extractText(tt.in); got != tt.want {
			t.Errorf("extractText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitTitleCompany(t *testing.T) {
	tests := []struct {
		in          string
		title, comp string
	}{
		{"Senior Engineer at Acme", "Senior Engineer", "Acme"},
		{"Engineer at Scale at Initech", "Engineer at Scale", "Initech"},
		{"No pattern here", "No pattern here", ""},
	}

	for _, tt := range tests {
		title, company := splitTitleCompany(tt.in)
		if title != tt.title || company != tt.comp {
			t.Errorf("splitTitleCompany(%q) = %q, %q; want %q, %q", tt.in, title, company, tt.title, tt.comp)
		}
	}
}

func TestHashIDStable(t *testing.T) {
	a := hashID("https://example.com/jobs/1")
	b := hashID("https://example.com/jobs/1")
	c := hashID("https://example.com/jobs/2")

	if a != b {
		t.Errorf("hashID not stable: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("hashID collision for distinct inputs: %q", a)
	}
	if a == "" {
		t.Error("hashID returned empty string")
	}
}
