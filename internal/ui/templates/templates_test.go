package templates

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/types"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestBaseLayout(t *testing.T) {
	html := renderString(t, AboutPage())

	assert.Contains(t, html, "<title>About - Micro-Hygiene Wiki</title>")
	for _, link := range []string{`href="/"`, `href="/categories"`, `href="/products"`, `href="/submit"`, `href="/about"`} {
		assert.Contains(t, html, link)
	}
	assert.Contains(t, html, "Medical Disclaimer")
}

func TestHomePageTips(t *testing.T) {
	html := renderString(t, HomePage(HomeView{
		Tips: []client.TipList{
			{ID: 42, Title: "How To Clean", CategoryName: "Kitchen", EffectivenessAvg: 4.26, SuccessRate: 80},
		},
		Pager:      types.NewPager("/", 1, 2),
		Categories: []client.Category{{Name: "Kitchen", Slug: "kitchen", TipsCount: 3}},
	}))

	assert.Contains(t, html, `href="/tips/42-how-to-clean"`)
	assert.Contains(t, html, "Effectiveness 4.3/5")
	assert.Contains(t, html, `href="/?page=2"`)
	assert.Contains(t, html, `href="/categories/kitchen"`)
}

func TestHomePageSearch(t *testing.T) {
	html := renderString(t, HomePage(HomeView{Query: `<b>mould</b>`}))

	assert.Contains(t, html, "Search results for &ldquo;&lt;b&gt;mould&lt;/b&gt;&rdquo;")
	assert.Contains(t, html, "No tips match your search")
	assert.NotContains(t, html, "<b>mould</b>")
}

func TestHomePageError(t *testing.T) {
	html := renderString(t, HomePage(HomeView{TipsError: "Failed to load tips. Please try again."}))

	assert.Contains(t, html, `class="alert alert-error"`)
	assert.Contains(t, html, "Failed to load tips. Please try again.")
}

func TestTipPage(t *testing.T) {
	html := renderString(t, TipPage(TipView{
		Tip: &client.TipDetail{
			ID:               7,
			Title:            "Vinegar & Limescale",
			Description:      "<script>alert(1)</script>",
			Category:         client.Category{Name: "Bathroom", Slug: "bathroom"},
			VoteCount:        1,
			EffectivenessAvg: 3.6,
		},
		Alert: &types.Alert{Kind: types.AlertSuccess, Message: "Thanks for voting!"},
	}))

	assert.Contains(t, html, `action="/tips/7-vinegar-limescale/vote"`)
	assert.Contains(t, html, `action="/tips/7-vinegar-limescale/flag"`)
	assert.Contains(t, html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "★★★★☆")
	assert.Contains(t, html, "1 vote")
	assert.Contains(t, html, `class="alert alert-success"`)
	assert.Contains(t, html, `<option value="5">5</option>`)
}

func TestCategoryPage(t *testing.T) {
	tips := make([]client.TipList, 25)
	for i := range tips {
		tips[i] = client.TipList{ID: i + 1, Title: "Tip"}
	}
	category := &client.CategoryDetail{Name: "Kitchen", Slug: "kitchen", Tips: tips}

	html := renderString(t, CategoryPage(category, types.Paginate(tips, 2, 20, "/categories/kitchen")))

	assert.Contains(t, html, "25 tips")
	assert.Contains(t, html, `href="/tips/21-tip"`)
	assert.NotContains(t, html, `href="/tips/20-tip"`)
	assert.Contains(t, html, `href="/categories/kitchen?page=1"`)
	assert.Contains(t, html, "Page 2 of 2")
}

func TestProductsPageSanitizesLinks(t *testing.T) {
	html := renderString(t, ProductsPage([]client.AffiliateProduct{
		{Name: "Good Cloth", AffiliateURL: "https://shop.example.com/cloth?tag=wiki&ref=1"},
		{Name: "Bad Link", AffiliateURL: "javascript:alert(1)"},
	}))

	assert.Contains(t, html, `href="https://shop.example.com/cloth?tag=wiki&amp;ref=1"`)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `rel="sponsored noopener noreferrer"`)
}

func TestSubmitPage(t *testing.T) {
	form := types.TipForm{Title: `Keep "this"`, CategoryID: 2}
	form.SetError(types.FieldCaptcha, "Please complete the CAPTCHA verification")

	html := renderString(t, SubmitPage(SubmitView{
		Categories:     []client.Category{{ID: 1, Name: "Kitchen"}, {ID: 2, Name: "Bathroom"}},
		Form:           form,
		Captcha:        templ.Raw(`<div id="captcha-test"></div>`),
		DisposeCaptcha: templ.NopComponent,
	}))

	assert.Contains(t, html, `value="Keep &#34;this&#34;"`)
	assert.Contains(t, html, `<option value="2" selected>Bathroom</option>`)
	assert.Contains(t, html, `<option value="1">Kitchen</option>`)
	assert.Contains(t, html, `<div id="captcha-test"></div>`)
	assert.Contains(t, html, "Please complete the CAPTCHA verification")
}

func TestErrorPage(t *testing.T) {
	html := renderString(t, ErrorPage(http.StatusServiceUnavailable, "The service is temporarily unavailable."))

	assert.Contains(t, html, "<h1>Service Unavailable</h1>")
	assert.Contains(t, html, "The service is temporarily unavailable.")
}

func TestNotFoundPage(t *testing.T) {
	assert.Contains(t, renderString(t, NotFoundPage()), "Page not found")
}
