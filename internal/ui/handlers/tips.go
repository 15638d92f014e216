package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	wiki "github.com/micro-hygiene/wiki"
	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/templates"
	"github.com/micro-hygiene/wiki/internal/ui/types"
	"github.com/micro-hygiene/wiki/internal/ui/urls"
)

// tipID reads the tip id from the {slugId} route parameter and adds it to the request log
func tipID(r *http.Request) (int, bool) {
	id, ok := urls.ExtractTipID("/tips/" + chi.URLParam(r, "slugId"))
	if ok {
		logger.ContextWithLogAttrs(r.Context(), slog.Int("tip_id", id))
	}
	return id, ok
}

// TipPage renders a tip. Requests for a non-canonical url (old or mistyped slug) are redirected to the canonical one.
func (h *HandlerService) TipPage(w http.ResponseWriter, r *http.Request) {
	id, ok := tipID(r)
	if !ok {
		h.NotFoundPage(w, r)
		return
	}

	tip, err := h.ApiClient.GetTip(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err, "Failed to load tip. Please try again.")
		return
	}

	canonical := urls.CreateTipURL(tip.Title, tip.ID)
	if r.URL.Path != canonical {
		target := canonical
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	view := templates.TipView{
		Tip:   tip,
		Alert: types.AlertFromQuery(r.URL.Query()),
	}
	h.render(w, r, http.StatusOK, templates.TipPage(view), "tip page")
}

// renderTipWithError re-renders the tip page after a rejected form post
func (h *HandlerService) renderTipWithError(w http.ResponseWriter, r *http.Request, id, status int, msg string) {
	tip, err := h.ApiClient.GetTip(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err, "Failed to load tip. Please try again.")
		return
	}

	view := templates.TipView{
		Tip:   tip,
		Alert: &types.Alert{Kind: types.AlertError, Message: msg},
	}
	h.render(w, r, status, templates.TipPage(view), "tip page")
}

// parseRating accepts a whole number on the voting scale
func parseRating(v string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < wiki.MinRating || n > wiki.MaxRating {
		return 0, false
	}
	return n, true
}

// VoteTip records a vote then redirects back to the tip, which shows the recalculated ratings
func (h *HandlerService) VoteTip(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	id, ok := tipID(r)
	if !ok {
		h.NotFoundPage(w, r)
		return
	}

	if status, ok := h.parseForm(r); !ok {
		h.renderTipWithError(w, r, id, status, "The form could not be read. Please try again.")
		return
	}

	effectiveness, ok1 := parseRating(r.PostForm.Get("effectiveness"))
	difficulty, ok2 := parseRating(r.PostForm.Get("difficulty"))
	if !ok1 || !ok2 {
		h.renderTipWithError(w, r, id, http.StatusBadRequest, "Please rate both effectiveness and difficulty from 1 to 5.")
		return
	}

	_, err := h.ApiClient.VoteTip(r.Context(), id, client.VoteRequest{
		Effectiveness: effectiveness,
		Difficulty:    difficulty,
	})
	if err != nil {
		reqLogger.Warn("Vote rejected", slog.String("error", err.Error()))
		h.renderTipWithError(w, r, id, pageStatus(err), client.UserMessage(err))
		return
	}

	http.Redirect(w, r, strings.TrimSuffix(r.URL.EscapedPath(), "/vote")+"?notice="+types.NoticeVoted, http.StatusSeeOther)
}

// FlagTip reports a tip to the moderators
func (h *HandlerService) FlagTip(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	id, ok := tipID(r)
	if !ok {
		h.NotFoundPage(w, r)
		return
	}

	if status, ok := h.parseForm(r); !ok {
		h.renderTipWithError(w, r, id, status, "The form could not be read. Please try again.")
		return
	}

	reason := strings.TrimSpace(r.PostForm.Get("reason"))
	if reason == "" {
		h.renderTipWithError(w, r, id, http.StatusBadRequest, "Please tell us why you are reporting this tip.")
		return
	}
	if utf8.RuneCountInString(reason) > wiki.MaxFlagReasonLen {
		h.renderTipWithError(w, r, id, http.StatusBadRequest,
			"Please keep the reason under "+strconv.Itoa(wiki.MaxFlagReasonLen)+" characters.")
		return
	}

	_, err := h.ApiClient.FlagTip(r.Context(), id, client.FlagRequest{Reason: reason})
	if err != nil {
		reqLogger.Warn("Flag rejected", slog.String("error", err.Error()))
		h.renderTipWithError(w, r, id, pageStatus(err), client.UserMessage(err))
		return
	}

	http.Redirect(w, r, strings.TrimSuffix(r.URL.EscapedPath(), "/flag")+"?notice="+types.NoticeFlagged, http.StatusSeeOther)
}

// parseForm parses the posted form. On failure it returns the status to respond with:
// 413 when the body exceeded the size limit, 400 otherwise.
func (h *HandlerService) parseForm(r *http.Request) (int, bool) {
	err := r.ParseForm()
	if err == nil {
		return 0, true
	}

	reqLogger := logger.ContextRequestLogger(r.Context())
	reqLogger.Warn("Failed to parse form", slog.String("error", err.Error()))

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge, false
	}
	return http.StatusBadRequest, false
}
