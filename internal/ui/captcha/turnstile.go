package captcha

import (
	"net/url"

	"github.com/a-h/templ"
)

const (
	// TurnstileScriptURL is loaded once per page, the script mounts every element with the cf-turnstile class
	TurnstileScriptURL = "https://challenges.cloudflare.com/turnstile/v0/api.js"

	// TurnstileOrigin must be allowed by the content security policy (script and frame)
	TurnstileOrigin = "https://challenges.cloudflare.com"

	// callbacks defined in /static/captcha.js
	solvedCallback  = "wikiCaptchaSolved"
	expiredCallback = "wikiCaptchaExpired"
	failedCallback  = "wikiCaptchaFailed"
)

// Turnstile renders the Cloudflare Turnstile widget for a site key
type Turnstile struct {
	siteKey string
}

func NewTurnstile(siteKey string) *Turnstile {
	return &Turnstile{siteKey: siteKey}
}

func (t *Turnstile) Render(container string) (Handle, templ.Component) {
	h := Handle{Container: container, ResponseField: ResponseField}

	return h, turnstileWidget(h, t.siteKey)
}

func (t *Turnstile) Token(form url.Values) (string, error) {
	return tokenFromForm(form, ResponseField)
}

// Dispose marks the container for removal; /static/captcha.js calls turnstile.remove when the enclosing form submits
func (t *Turnstile) Dispose(h Handle) templ.Component {
	return disposeMarker(h)
}
