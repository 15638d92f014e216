package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/captcha"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/templates"
	"github.com/micro-hygiene/wiki/internal/ui/types"
	"github.com/micro-hygiene/wiki/internal/ui/urls"
)

const captchaRequiredMsg = "Please complete the CAPTCHA verification"

// SubmitPage renders an empty submit form
func (h *HandlerService) SubmitPage(w http.ResponseWriter, r *http.Request) {
	h.renderSubmitForm(w, r, http.StatusOK, types.TipForm{})
}

// renderSubmitForm renders the form with a freshly mounted captcha widget.
// The form is still usable when the categories could not be loaded, the dropdown is then empty.
func (h *HandlerService) renderSubmitForm(w http.ResponseWriter, r *http.Request, status int, form types.TipForm) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	view := templates.SubmitView{Form: form}

	categories, err := h.ApiClient.GetCategories(r.Context())
	if err != nil {
		reqLogger.Error("Failed to load categories for the submit form", slog.String("error", err.Error()))
		view.CategoriesError = "Failed to load categories. Please try again."
	}
	view.Categories = categories

	handle, widget := h.Captcha.Render(captcha.NewContainerID())
	view.Captcha = widget
	view.DisposeCaptcha = h.Captcha.Dispose(handle)

	h.render(w, r, status, templates.SubmitPage(view), "submit page")
}

// SubmitTip creates a tip and redirects to it.
// Incomplete forms, including a missing captcha token, are rejected without calling the API.
func (h *HandlerService) SubmitTip(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	if status, ok := h.parseForm(r); !ok {
		form := types.TipForm{Error: "The form could not be read. Please try again."}
		if status == http.StatusRequestEntityTooLarge {
			form.Error = "Your tip is too long. Please shorten it and try again."
		}
		h.renderSubmitForm(w, r, status, form)
		return
	}

	form := types.TipFormFromValues(r.PostForm)
	valid := form.Validate()

	token, err := h.Captcha.Token(r.PostForm)
	if err != nil {
		form.SetError(types.FieldCaptcha, captchaRequiredMsg)
		valid = false
	}

	if !valid {
		h.renderSubmitForm(w, r, http.StatusBadRequest, form)
		return
	}

	res, err := h.ApiClient.CreateTip(r.Context(), client.CreateTipRequest{
		Title:          form.Title,
		Description:    form.Description,
		CategoryID:     form.CategoryID,
		TurnstileToken: token,
	})
	if err != nil {
		reqLogger.Warn("Tip submission rejected", slog.String("error", err.Error()))

		form.Error = client.UserMessage(err)
		if msg := apiMessage(err); isCaptchaError(msg) {
			form.SetError(types.FieldCaptcha, msg)
		}

		h.renderSubmitForm(w, r, submitStatus(err), form)
		return
	}

	logger.ContextWithLogAttrs(r.Context(), slog.Int("tip_id", res.TipID))

	http.Redirect(w, r, urls.CreateTipURL(res.Title, res.TipID), http.StatusSeeOther)
}

// isCaptchaError reports whether an API error message is about the captcha verification
func isCaptchaError(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "turnstile") || strings.Contains(msg, "captcha")
}

// submitStatus passes through validation (400), captcha/moderation (403) and rate limit (429) failures
func submitStatus(err error) int {
	var ce *client.ClientError
	if errors.As(err, &ce) && ce.Kind == client.KindStatus && ce.StatusCode < 500 {
		return ce.StatusCode
	}
	return http.StatusBadGateway
}
