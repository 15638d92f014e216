package urls

import (
	"testing"
)

func TestCreateSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"special characters", "Kitchen & Bath!! Cleaning", "kitchen-bath-cleaning"},
		{"multiple spaces", "  multiple   spaces ", "multiple-spaces"},
		{"empty", "", ""},
		{"underscores", "deep_clean__oven", "deep-clean-oven"},
		{"hyphen runs", "before -- after", "before-after"},
		{"leading and trailing hyphens", "--Grout Tips--", "grout-tips"},
		{"only punctuation", "!!!", ""},
		{"digits kept", "Top 10 Tricks", "top-10-tricks"},
		{"accents folded", "Café Crème Descaling", "cafe-creme-descaling"},
		{"tabs and newlines", "mould\tand\nmildew", "mould-and-mildew"},
		{"vertical tab", "grout\vcleaner", "grout-cleaner"},
		{"form feed and carriage return", "grout\f\r cleaner", "grout-cleaner"},
		{"non latin dropped", "清洁 kitchen", "kitchen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CreateSlug(tt.in); got != tt.want {
				t.Errorf("CreateSlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCreateSlugIdempotent(t *testing.T) {
	inputs := []string{
		"Kitchen & Bath!! Cleaning",
		"  multiple   spaces ",
		"",
		"_-_ mixed _-_ separators _-_",
		"Ünïcödé Tïtle",
		"already-a-slug",
		"a - b _ c",
	}

	for _, in := range inputs {
		once := CreateSlug(in)
		if twice := CreateSlug(once); twice != once {
			t.Errorf("CreateSlug not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestCreateTipURL(t *testing.T) {
	tests := []struct {
		title string
		id    int
		want  string
	}{
		{"How To Clean", 42, "/tips/42-how-to-clean"},
		{"Kitchen & Bath!! Cleaning", 7, "/tips/7-kitchen-bath-cleaning"},
		{"!!!", 3, "/tips/3-"},
	}

	for _, tt := range tests {
		if got := CreateTipURL(tt.title, tt.id); got != tt.want {
			t.Errorf("CreateTipURL(%q, %d) = %q, want %q", tt.title, tt.id, got, tt.want)
		}
	}
}

func TestExtractTipID(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		wantID int
		wantOK bool
	}{
		{"clean url", "/tips/42-how-to-clean", 42, true},
		{"empty slug", "/tips/3-", 3, true},
		{"not a number", "/tips/not-a-number", 0, false},
		{"missing slug separator", "/tips/42", 0, false},
		{"api style path", "/tips/42/", 0, false},
		{"embedded tips segment", "/en/tips/12-grout", 12, true},
		{"leading zeros", "/tips/007-bond", 7, true},
		{"overflow", "/tips/99999999999999999999999-huge", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractTipID(tt.path)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ExtractTipID(%q) = (%d, %v), want (%d, %v)", tt.path, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestTipURLRoundTrip(t *testing.T) {
	for _, id := range []int{1, 42, 123456} {
		path := CreateTipURL("Some Title: with punctuation?", id)
		got, ok := ExtractTipID(path)
		if !ok || got != id {
			t.Errorf("ExtractTipID(CreateTipURL(..., %d)) = (%d, %v)", id, got, ok)
		}
	}
}

func TestCategoryURL(t *testing.T) {
	if got := CategoryURL("kitchen"); got != "/categories/kitchen" {
		t.Errorf("CategoryURL() = %q", got)
	}
}
