package templates

import (
	"github.com/a-h/templ"

	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/types"
	"github.com/micro-hygiene/wiki/internal/ui/urls"
)

// HomeView is either a page of the latest tips or, when Query is set, the results of a search
type HomeView struct {
	Query           string
	Tips            []client.TipList
	TotalTips       int
	Pager           types.Pager
	Categories      []client.Category
	TipsError       string // shown instead of the list when the tips could not be loaded
	CategoriesError string
}

func (v HomeView) title() string {
	if v.Query != "" {
		return "Search: " + v.Query
	}
	return ""
}

// TipView is the tip detail page
type TipView struct {
	Tip   *client.TipDetail
	Alert *types.Alert
}

func (v TipView) url() string {
	return urls.CreateTipURL(v.Tip.Title, v.Tip.ID)
}

type SubmitView struct {
	Categories      []client.Category
	CategoriesError string
	Form            types.TipForm
	Captcha         templ.Component // the rendered widget
	DisposeCaptcha  templ.Component // unmounts the widget when the form is submitted
}
