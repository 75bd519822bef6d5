package dashboard

import (
	"html/template"
	"io"
	"net/url"
)

var (
	dashboardTmpl = template.Must(template.New("dashboard").Parse(tmplBase + tmplDashboard))
	exploreTmpl   = template.Must(template.New("explore").Parse(tmplBase + tmplExplore))
)

type dashboardView struct {
	Title         string
	Page          *Page
	Error         string
	CounterAction template.URL
}

type exploreView struct {
	Title string
	Page  *ExplorePage
	Error string
}

// WriteHTML renders the dashboard page. When loadErr is set the page shows the error
// instead of any component. query is echoed on the counter button so the filters
// survive the round trip.
func WriteHTML(w io.Writer, page *Page, loadErr error, query url.Values) error {
	view := dashboardView{
		Title:         "Uber pickups in NYC",
		Page:          page,
		CounterAction: template.URL("/counter?" + query.Encode()),
	}
	if loadErr != nil {
		view.Page = nil
		view.Error = loadErr.Error()
	}
	return dashboardTmpl.ExecuteTemplate(w, "base", view)
}

// WriteExploreHTML renders the column explorer page.
func WriteExploreHTML(w io.Writer, page *ExplorePage, err error) error {
	view := exploreView{
		Title: "Explore an uploaded CSV",
		Page:  page,
	}
	if err != nil {
		view.Error = err.Error()
	}
	return exploreTmpl.ExecuteTemplate(w, "base", view)
}
