package types

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// =============================================================================
// PAGINATION
// =============================================================================

// Pager describes the page links rendered under a list
type Pager struct {
	Path     string // page n is linked as Path?page=n
	Current  int
	Total    int
	Previous int // 0 = no previous page
	Next     int // 0 = no next page
}

// NewPager derives the previous and next links from the current page and page count
func NewPager(path string, current, total int) Pager {
	p := Pager{Path: path, Current: current, Total: total}
	if current > 1 {
		p.Previous = current - 1
	}
	if current < total {
		p.Next = current + 1
	}
	return p
}

// Show is false when everything fits on a single page
func (p Pager) Show() bool {
	return p.Previous > 0 || p.Next > 0
}

func (p Pager) URL(page int) string {
	return fmt.Sprintf("%s?page=%d", p.Path, page)
}

// Page is one slice of a list paginated in the ui rather than by the API
type Page[T any] struct {
	Items []T
	Pager Pager
}

// Paginate returns page n of items, size items per page.
// n is clamped to [1, total pages]; an empty list has a single, empty, page.
func Paginate[T any](items []T, n, size int, path string) Page[T] {
	if size < 1 {
		size = 1
	}

	totalPages := (len(items) + size - 1) / size
	n = max(1, min(n, totalPages))

	start := min((n-1)*size, len(items))
	end := min(start+size, len(items))

	return Page[T]{
		Items: items[start:end],
		Pager: NewPager(path, n, max(totalPages, 1)),
	}
}

// ParsePage reads a page number from a query value. Missing or malformed values are page 1.
func ParsePage(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// =============================================================================
// FORMS
// =============================================================================

// Form field keys used for error messages
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategory    = "category_id"
	FieldCaptcha     = "captcha"
)

// TipForm holds the values of the submit form so they can be re-rendered after a failed submission
type TipForm struct {
	Title       string
	Description string
	CategoryID  int
	Errors      map[string]string // field -> message
	Error       string            // message not tied to a field
}

// TipFormFromValues reads the submit form. Values are trimmed; the category id is 0 when missing or malformed.
func TipFormFromValues(form url.Values) TipForm {
	categoryID, err := strconv.Atoi(form.Get(FieldCategory))
	if err != nil {
		categoryID = 0
	}
	return TipForm{
		Title:       strings.TrimSpace(form.Get(FieldTitle)),
		Description: strings.TrimSpace(form.Get(FieldDescription)),
		CategoryID:  categoryID,
	}
}

// Validate records a message for each required field left empty and reports whether the form is complete
func (f *TipForm) Validate() bool {
	if f.Title == "" {
		f.SetError(FieldTitle, "Please enter a title.")
	}
	if f.Description == "" {
		f.SetError(FieldDescription, "Please describe the tip.")
	}
	if f.CategoryID <= 0 {
		f.SetError(FieldCategory, "Please select a category.")
	}
	return len(f.Errors) == 0
}

func (f *TipForm) SetError(field, msg string) {
	if f.Errors == nil {
		f.Errors = make(map[string]string)
	}
	f.Errors[field] = msg
}

// FieldError returns the message recorded for field, or ""
func (f TipForm) FieldError(field string) string {
	return f.Errors[field]
}

// =============================================================================
// ALERTS
// =============================================================================

type AlertKind string

const (
	AlertError   AlertKind = "error"
	AlertSuccess AlertKind = "success"
)

// Alert is a one-off message shown at the top of a page
type Alert struct {
	Kind    AlertKind
	Message string
}

// Notices shown after a successful form post redirects back to a page (?notice=)
const (
	NoticeVoted   = "voted"
	NoticeFlagged = "flagged"
)

var notices = map[string]string{
	NoticeVoted:   "Thanks for voting! The ratings have been updated.",
	NoticeFlagged: "Thanks, the tip has been reported to the moderators.",
}

// AlertFromQuery returns the success alert for a ?notice= code, or nil. Unknown codes are ignored.
func AlertFromQuery(q url.Values) *Alert {
	msg, ok := notices[q.Get("notice")]
	if !ok {
		return nil
	}
	return &Alert{Kind: AlertSuccess, Message: msg}
}
