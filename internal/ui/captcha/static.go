package captcha

import (
	"net/url"

	"github.com/a-h/templ"
)

// DevToken is posted by the Static widget when no token is configured
const DevToken = "dev-captcha-token"

// Static is used in dev (no site key configured) and in tests: it posts a fixed token without a challenge.
// The API only accepts it when its own captcha verification is disabled.
type Static struct {
	token string
}

func NewStatic(token string) *Static {
	if token == "" {
		token = DevToken
	}
	return &Static{token: token}
}

func (s *Static) Render(container string) (Handle, templ.Component) {
	h := Handle{Container: container, ResponseField: ResponseField}

	return h, staticWidget(h, s.token)
}

func (s *Static) Token(form url.Values) (string, error) {
	return tokenFromForm(form, ResponseField)
}

func (s *Static) Dispose(Handle) templ.Component {
	return templ.NopComponent
}
