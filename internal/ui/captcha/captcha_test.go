package captcha

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, w Widget, container string) (Handle, string) {
	t.Helper()

	h, component := w.Render(container)
	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	return h, buf.String()
}

func TestTurnstileRender(t *testing.T) {
	h, html := render(t, NewTurnstile("site-key-123"), "captcha-abc")

	assert.Equal(t, Handle{Container: "captcha-abc", ResponseField: ResponseField}, h)
	assert.Contains(t, html, `id="captcha-abc"`)
	assert.Contains(t, html, `class="cf-turnstile"`)
	assert.Contains(t, html, `data-sitekey="site-key-123"`)
	assert.Contains(t, html, `data-expired-callback="wikiCaptchaExpired"`)
	assert.Contains(t, html, `data-error-callback="wikiCaptchaFailed"`)
	assert.Contains(t, html, TurnstileScriptURL)
}

func TestTurnstileRenderEscapesAttributes(t *testing.T) {
	_, html := render(t, NewTurnstile(`"><script>alert(1)</script>`), "c")

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&#34;&gt;&lt;script&gt;")
}

func TestStaticRender(t *testing.T) {
	h, html := render(t, NewStatic(""), "captcha-1")

	assert.Equal(t, "captcha-1", h.Container)
	assert.Contains(t, html, `name="cf-turnstile-response"`)
	assert.Contains(t, html, `value="`+DevToken+`"`)
	assert.NotContains(t, html, TurnstileScriptURL)
}

func TestToken(t *testing.T) {
	widgets := map[string]Widget{
		"turnstile": NewTurnstile("key"),
		"static":    NewStatic("fixed"),
	}

	tests := []struct {
		name    string
		form    url.Values
		want    string
		wantErr error
	}{
		{"token posted", url.Values{ResponseField: {"tok-1"}}, "tok-1", nil},
		{"surrounding space trimmed", url.Values{ResponseField: {"  tok-2 "}}, "tok-2", nil},
		{"field missing", url.Values{}, "", ErrTokenMissing},
		{"field blank", url.Values{ResponseField: {"   "}}, "", ErrTokenMissing},
	}

	for widgetName, w := range widgets {
		for _, tt := range tests {
			t.Run(widgetName+"/"+tt.name, func(t *testing.T) {
				got, err := w.Token(tt.form)
				if tt.wantErr != nil {
					assert.True(t, errors.Is(err, tt.wantErr), "got error %v", err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestDispose(t *testing.T) {
	w := NewTurnstile("key")
	h, _ := w.Render("captcha-x")

	var buf bytes.Buffer
	require.NoError(t, w.Dispose(h).Render(context.Background(), &buf))
	assert.Equal(t, `<span hidden data-captcha-dispose="captcha-x"></span>`, buf.String())

	buf.Reset()
	s := NewStatic("")
	require.NoError(t, s.Dispose(h).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
}

func TestNewContainerIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewContainerID()
		if !strings.HasPrefix(id, "captcha-") {
			t.Fatalf("unexpected id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
