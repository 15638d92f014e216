// Package captcha is the boundary between the submit form and the human-verification widget.
//
// The widget is rendered into a container element on the page and writes the token it produces into a
// hidden form field. The handler reads the token back from the posted form and forwards it to the API,
// which does the actual verification.
package captcha

import (
	"errors"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/google/uuid"
)

// ResponseField is the form field the widget posts its token in
const ResponseField = "cf-turnstile-response"

// ErrTokenMissing is returned by Token when the user has not completed the challenge
var ErrTokenMissing = errors.New("captcha token missing")

// Handle identifies a rendered widget
type Handle struct {
	Container     string // id of the element the widget is mounted in
	ResponseField string // form field the token arrives in
}

type Widget interface {
	// Render mounts a widget in the element with the given id
	Render(container string) (Handle, templ.Component)

	// Token returns the token posted with the form, or ErrTokenMissing
	Token(form url.Values) (string, error)

	// Dispose returns markup that unmounts the widget once its form has been submitted (tokens are single-use)
	Dispose(h Handle) templ.Component
}

// NewContainerID returns an element id that is unique to one render of the page
func NewContainerID() string {
	return "captcha-" + uuid.NewString()
}

// tokenFromForm is shared by the widgets: a blank token is treated the same as a missing one
func tokenFromForm(form url.Values, field string) (string, error) {
	token := strings.TrimSpace(form.Get(field))
	if token == "" {
		return "", ErrTokenMissing
	}
	return token, nil
}
