// Package urls builds the clean, SEO-friendly paths used to address tips and categories.
//
// A tip is addressed as /tips/{id}-{slug}: the numeric id is authoritative, the slug only describes the title.
package urls

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9_\s\v-]`)
	separatorRuns   = regexp.MustCompile(`[\s\v_]+`)
	hyphenRuns      = regexp.MustCompile(`-+`)
	edgeHyphens     = regexp.MustCompile(`^-+|-+$`)
	tipIDInPath     = regexp.MustCompile(`/tips/(\d+)-`)
	stripDiacritics = runes.Remove(runes.In(unicode.Mn))
)

// CreateSlug converts text to a lowercase, hyphen-separated slug.
//
// Accented letters are folded to ASCII first (café -> cafe), the same way the API derives its slugs;
// any other character that is not a letter, digit, underscore, space or hyphen is dropped.
// CreateSlug is idempotent: CreateSlug(CreateSlug(s)) == CreateSlug(s).
func CreateSlug(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, stripDiacritics, norm.NFC), text)
	if err != nil {
		folded = text
	}

	slug := strings.TrimSpace(strings.ToLower(folded))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = separatorRuns.ReplaceAllString(slug, "-")
	slug = hyphenRuns.ReplaceAllString(slug, "-")
	return edgeHyphens.ReplaceAllString(slug, "")
}

// TipSlugID returns the "{id}-{slug}" path segment that addresses a tip
func TipSlugID(title string, id int) string {
	return fmt.Sprintf("%d-%s", id, CreateSlug(title))
}

// CreateTipURL returns the clean path of a tip, e.g. "/tips/123-clean-tip-title"
func CreateTipURL(title string, id int) string {
	return "/tips/" + TipSlugID(title, id)
}

// ExtractTipID returns the tip id from a path such as "/tips/123-clean-tip-title".
//
// The pattern is searched anywhere in the path rather than anchored at its start, so "/en/tips/12-x" also yields 12.
// ok is false when the path has no "/tips/{digits}-" segment or the id does not fit in an int.
func ExtractTipID(path string) (id int, ok bool) {
	match := tipIDInPath.FindStringSubmatch(path)
	if match == nil {
		return 0, false
	}

	id, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// CategoryURL returns the path of a category page
func CategoryURL(slug string) string {
	return "/categories/" + slug
}
