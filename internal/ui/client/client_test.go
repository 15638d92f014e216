package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wiki "github.com/micro-hygiene/wiki"
)

// recordedRequest captures what the fake API received
type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Header      http.Header
	Body        []byte
}

// newTestAPI starts a fake wiki API that replies with status and body to every request
func newTestAPI(t *testing.T, status int, body string) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*rec = recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Header:      r.Header.Clone(),
			Body:        data,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL + "/api"), rec
}

const tipListJSON = `{"id":1,"title":"Tip 1","slug":"tip-1","category_name":"Kitchen","effectiveness_avg":4.5,"difficulty_avg":2.0,"success_rate":150,"created_at":"2024-01-01"}`

func TestGetCategories(t *testing.T) {
	body := `[
		{"id":1,"name":"Kitchen","slug":"kitchen","description":"Kitchen tips","tips_count":5},
		{"id":2,"name":"Bathroom","slug":"bathroom","description":"Bathroom tips","tips_count":3}
	]`
	c, rec := newTestAPI(t, http.StatusOK, body)

	got, err := c.GetCategories(context.Background())
	require.NoError(t, err)

	var want []Category
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetCategories() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/categories/", rec.Path)
	assert.Empty(t, rec.Body)
}

func TestGetCategoriesServerError(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusInternalServerError, `{"error":"Server error"}`)

	_, err := c.GetCategories(context.Background())
	require.Error(t, err)

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindStatus, ce.Kind)
	assert.Equal(t, http.StatusInternalServerError, ce.StatusCode)
	assert.Equal(t, "Server error", ce.Message)
	require.NotNil(t, ce.Response)
	assert.Equal(t, http.StatusInternalServerError, ce.Response.StatusCode)
	assert.Equal(t, OutcomeHTTPFailure, Classify(err))
	assert.Equal(t, "The service is temporarily unavailable. Please try again later.", ce.UserError())
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL + "/api"
	srv.Close() // nothing is listening any more

	c := NewClient(baseURL)
	_, err := c.GetCategories(context.Background())
	require.Error(t, err)

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindNetwork, ce.Kind)
	assert.Zero(t, ce.StatusCode)
	assert.Nil(t, ce.Response)
	assert.Equal(t, OutcomeNetworkFailure, Classify(err))
	assert.Zero(t, StatusCode(err))
}

func TestCancelledContextIsNetworkFailure(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusOK, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetCategories(ctx)
	require.Error(t, err)
	assert.Equal(t, OutcomeNetworkFailure, Classify(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTimeoutIsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.GetAffiliateProducts(context.Background())
	require.Error(t, err)

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindNetwork, ce.Kind)
	assert.Nil(t, ce.Response)
}

func TestWithTimeoutLeavesSharedClientUnchanged(t *testing.T) {
	before := http.DefaultClient.Timeout

	tests := []struct {
		name string
		opts []Option
	}{
		{"timeout after http client", []Option{WithHTTPClient(http.DefaultClient), WithTimeout(3 * time.Second)}},
		{"timeout before http client", []Option{WithTimeout(3 * time.Second), WithHTTPClient(http.DefaultClient)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("http://api.test", tt.opts...)

			assert.Equal(t, before, http.DefaultClient.Timeout)
			assert.NotSame(t, http.DefaultClient, c.httpClient)
			assert.Equal(t, 3*time.Second, c.httpClient.Timeout)
		})
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}

	assert.Same(t, hc, NewClient("http://api.test", WithHTTPClient(hc)).httpClient)
	assert.Equal(t, wiki.DefaultAPITimeout, NewClient("http://api.test").httpClient.Timeout)
}

func TestGetTips(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		body      string
		wantQuery string
		wantPage  int
	}{
		{
			name:      "no page requests page 1",
			page:      0,
			body:      `{"count":2,"total_pages":1,"current_page":1,"next":null,"previous":null,"results":[` + tipListJSON + `]}`,
			wantQuery: "page=1",
			wantPage:  1,
		},
		{
			name:      "page 2",
			page:      2,
			body:      `{"count":40,"total_pages":2,"current_page":2,"next":null,"previous":1,"results":[]}`,
			wantQuery: "page=2",
			wantPage:  2,
		},
		{
			name:      "current page is passed through from the server",
			page:      7,
			body:      `{"count":40,"total_pages":2,"current_page":2,"next":null,"previous":1,"results":[]}`,
			wantQuery: "page=7",
			wantPage:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestAPI(t, http.StatusOK, tt.body)

			got, err := c.GetTips(context.Background(), tt.page)
			require.NoError(t, err)

			assert.Equal(t, "/api/tips/", rec.Path)
			assert.Equal(t, tt.wantQuery, rec.RawQuery)
			assert.Equal(t, tt.wantPage, got.CurrentPage)

			var want TipListResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &want))
			if diff := cmp.Diff(&want, got); diff != "" {
				t.Errorf("GetTips() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetTipsEnvelope(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusOK, `{"count":40,"total_pages":2,"current_page":2,"next":null,"previous":1,"results":[]}`)

	got, err := c.GetTips(context.Background(), 2)
	require.NoError(t, err)

	assert.Nil(t, got.Next)
	require.NotNil(t, got.Previous)
	assert.Equal(t, 1, *got.Previous)
	assert.Equal(t, 40, got.Count)
	assert.Equal(t, 2, got.TotalPages)
}

func TestGetTip(t *testing.T) {
	body := `{
		"id":1,"title":"Test Tip","slug":"test-tip","description":"Test description",
		"category":{"id":1,"name":"Kitchen","slug":"kitchen","description":"","tips_count":5},
		"votes":[{"id":9,"effectiveness":5,"difficulty":2,"ip_hash":"abc","created_at":"2024-01-02"}],
		"vote_count":1,"vote_score":3.5,"effectiveness_avg":4.5,"difficulty_avg":2.0,"success_rate":150,
		"created_at":"2024-01-01"
	}`
	c, rec := newTestAPI(t, http.StatusOK, body)

	got, err := c.GetTip(context.Background(), 1)
	require.NoError(t, err)

	var want TipDetail
	require.NoError(t, json.Unmarshal([]byte(body), &want))
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("GetTip() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "/api/tips/1/", rec.Path)
	assert.Equal(t, "Kitchen", got.Category.Name)
	require.Len(t, got.Votes, 1)
	assert.Equal(t, 5, got.Votes[0].Effectiveness)
}

func TestGetTipNotFound(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"error body", `{"error":"Tip not found"}`, "Tip not found"},
		{"detail only body", `{"detail":"No Tip matches the given query."}`, "No Tip matches the given query."},
		{"undecodable body", `<html>not found</html>`, "Not Found"},
		{"empty body", ``, "Not Found"},
		{"json without message", `{}`, "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestAPI(t, http.StatusNotFound, tt.body)

			_, err := c.GetTip(context.Background(), 999)
			require.Error(t, err)
			assert.Equal(t, "/api/tips/999/", rec.Path)

			var ce *ClientError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, http.StatusNotFound, ce.StatusCode)
			assert.Equal(t, tt.wantMessage, ce.Message)
			assert.Equal(t, "The requested item could not be found.", ce.UserError())
		})
	}
}

func TestGetCategory(t *testing.T) {
	body := `{"id":1,"name":"Kitchen","slug":"kitchen","description":"Kitchen hygiene tips","tips":[` + tipListJSON + `]}`
	c, rec := newTestAPI(t, http.StatusOK, body)

	got, err := c.GetCategory(context.Background(), "kitchen")
	require.NoError(t, err)

	assert.Equal(t, "/api/categories/kitchen/", rec.Path)
	require.Len(t, got.Tips, 1)
	assert.Equal(t, "Tip 1", got.Tips[0].Title)
	assert.Equal(t, 150.0, got.Tips[0].SuccessRate)
}

func TestGetAffiliateProducts(t *testing.T) {
	body := `[{"id":3,"name":"Microfiber cloth","affiliate_url":"https://example.com/p/3","network":"amazon","keywords":["microfiber","cloth"],"is_active":true}]`
	c, rec := newTestAPI(t, http.StatusOK, body)

	got, err := c.GetAffiliateProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/api/products/", rec.Path)
	assert.Equal(t, []AffiliateProduct{{
		ID:           3,
		Name:         "Microfiber cloth",
		AffiliateURL: "https://example.com/p/3",
		Network:      "amazon",
		Keywords:     []string{"microfiber", "cloth"},
		IsActive:     true,
	}}, got)
}

func TestCreateTip(t *testing.T) {
	c, rec := newTestAPI(t, http.StatusCreated, `{"success":true,"tip_id":1,"title":"New Tip","message":"Tip created successfully"}`)

	req := CreateTipRequest{
		Title:          "New Tip",
		Description:    "Description",
		CategoryID:     1,
		TurnstileToken: "token123",
	}
	got, err := c.CreateTip(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, &CreateTipResponse{TipID: 1, Title: "New Tip"}, got)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/tips/create/", rec.Path)
	assert.Equal(t, "application/json", rec.ContentType)
	assert.JSONEq(t, `{"title":"New Tip","description":"Description","category_id":1,"turnstile_token":"token123"}`, string(rec.Body))
}

func TestCreateTipValidationFailure(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusBadRequest, `{"error":"Missing required fields: title, description, category_id"}`)

	_, err := c.CreateTip(context.Background(), CreateTipRequest{CategoryID: 1, TurnstileToken: "token"})
	require.Error(t, err)

	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
	assert.Equal(t, "Missing required fields: title, description, category_id", UserMessage(err))
}

func TestVoteTip(t *testing.T) {
	c, rec := newTestAPI(t, http.StatusOK, `{"success":true,"effectiveness_avg":4.5,"difficulty_avg":2.0,"success_rate":150}`)

	got, err := c.VoteTip(context.Background(), 1, VoteRequest{Effectiveness: 5, Difficulty: 2})
	require.NoError(t, err)

	assert.Equal(t, &VoteResponse{Success: true, EffectivenessAvg: 4.5, DifficultyAvg: 2.0, SuccessRate: 150}, got)
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api/tips/1/vote/", rec.Path)
	assert.JSONEq(t, `{"effectiveness":5,"difficulty":2}`, string(rec.Body))
}

func TestVoteTipDuplicate(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusBadRequest, `{"error":"You have already voted on this tip"}`)

	_, err := c.VoteTip(context.Background(), 1, VoteRequest{Effectiveness: 5, Difficulty: 2})
	require.Error(t, err)

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadRequest, ce.StatusCode)
	assert.Equal(t, "You have already voted on this tip", ce.UserError())
}

func TestFlagTip(t *testing.T) {
	c, rec := newTestAPI(t, http.StatusCreated, `{"success":true,"message":"Flag created successfully"}`)

	got, err := c.FlagTip(context.Background(), 7, FlagRequest{Reason: "spam"})
	require.NoError(t, err)

	assert.True(t, got.Success)
	assert.Equal(t, "/api/tips/7/flag/", rec.Path)
	assert.JSONEq(t, `{"reason":"spam"}`, string(rec.Body))
}

func TestSearchTips(t *testing.T) {
	c, rec := newTestAPI(t, http.StatusOK, `[`+tipListJSON+`]`)

	got, err := c.SearchTips(context.Background(), "kitchen")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "/api/tips/search/", rec.Path)
	assert.Equal(t, "q=kitchen", rec.RawQuery)
}

func TestSearchTipsEncodesQuery(t *testing.T) {
	c, rec := newTestAPI(t, http.StatusOK, `[]`)

	got, err := c.SearchTips(context.Background(), "kitchen & bathroom")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, "q=kitchen%20%26%20bathroom", rec.RawQuery)
	assert.NotContains(t, rec.RawQuery, "&")
}

func TestEncodeQueryComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"kitchen", "kitchen"},
		{"kitchen & bathroom", "kitchen%20%26%20bathroom"},
		{"a+b", "a%2Bb"},
		{"50%/day", "50%25%2Fday"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := EncodeQueryComponent(tt.in); got != tt.want {
			t.Errorf("EncodeQueryComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostMergesHeaders(t *testing.T) {
	c, rec := newTestAPI(t, http.StatusOK, `{}`)

	extra := http.Header{}
	extra.Set("X-Forwarded-For", "203.0.113.7")

	_, err := Post[map[string]any](context.Background(), c, "/tips/1/vote/", VoteRequest{Effectiveness: 1, Difficulty: 1}, extra)
	require.NoError(t, err)

	assert.Equal(t, "application/json", rec.ContentType)
	assert.Equal(t, "203.0.113.7", rec.Header.Get("X-Forwarded-For"))
}

func TestPostUnencodablePayload(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusOK, `{}`)

	_, err := Post[map[string]any](context.Background(), c, "/tips/create/", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, OutcomeInternalFailure, Classify(err))
}

func TestDecodeFailure(t *testing.T) {
	c, _ := newTestAPI(t, http.StatusOK, `<html>oops</html>`)

	_, err := c.GetCategories(context.Background())
	require.Error(t, err)

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindDecode, ce.Kind)
	assert.Zero(t, ce.StatusCode)
	assert.Nil(t, ce.Response)
	assert.Equal(t, OutcomeDecodeFailure, Classify(err))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(nil))
	assert.Equal(t, OutcomeOther, Classify(errors.New("boom")))
	assert.Equal(t, OutcomeNetworkFailure, Classify(NewClientConnectionError(errors.New("refused"))))
}

func TestUserErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *ClientError
		want string
	}{
		{"network", NewClientConnectionError(errors.New("refused")), "Unable to reach the wiki. Please check your internet connection and try again."},
		{"decode", NewClientDecodeError(errors.New("bad json"), "/tips/"), "An error occurred. Please try again later."},
		{"turnstile rejected", &ClientError{Kind: KindStatus, StatusCode: 403, Message: "Invalid Turnstile token"}, "Invalid Turnstile token"},
		{"forbidden without message", &ClientError{Kind: KindStatus, StatusCode: 403, Message: "Forbidden"}, "You don't have permission to do that."},
		{"rate limited", &ClientError{Kind: KindStatus, StatusCode: 429, Message: "Rate limit exceeded. Maximum 5 tips per hour."}, "Rate limit exceeded. Maximum 5 tips per hour."},
		{"bad request without message", &ClientError{Kind: KindStatus, StatusCode: 400, Message: "Bad Request"}, "Invalid request. Please check your input and try again."},
		{"bad gateway", &ClientError{Kind: KindStatus, StatusCode: 502, Message: "Bad Gateway"}, "The service is temporarily unavailable. Please try again later."},
		{"teapot", &ClientError{Kind: KindStatus, StatusCode: 418, Message: "I'm a teapot"}, "An error occurred. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.UserError())
		})
	}
}

func TestClientErrorMessage(t *testing.T) {
	err := &ClientError{Kind: KindStatus, StatusCode: 404, Message: "Tip not found", Detail: "id 999"}
	assert.Equal(t, "wiki api status 404 - Tip not found (id 999)", err.Error())

	assert.Equal(t, "network error: refused", NewClientConnectionError(errors.New("refused")).Error())
}
