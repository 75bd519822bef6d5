package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/pickups-dashboard/internal/dashboard"
	"github.com/i474232898/pickups-dashboard/internal/pickups"
	"github.com/i474232898/pickups-dashboard/internal/session"
)

const pickupsCSV = "Date/Time,Lat,Lon,Base\n" +
	"9/1/2014 5:10:00,40.7000,-74.0000,B02512\n" +
	"9/1/2014 5:45:00,40.7200,-73.9800,B02512\n" +
	"9/1/2014 17:30:00,40.7500,-73.9900,B02598\n"

type staticSource struct {
	body string
	err  error
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

func newTestApp(src pickups.Source) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	svc := pickups.NewService(pickups.NewCache(), src, "date/time")
	RegisterRoutes(app, svc, session.NewMemoryStore(), Options{
		RowLimit:    100,
		DefaultHour: 17,
		ExploreTopN: 10,
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func sessionCookieOf(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("expected a session cookie")
	return nil
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestDashboardFiltersByDateAndHour(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?date=2014-09-01&hour=17", nil)
	resp := doRequest(t, app, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var page dashboard.Page
	decode(t, resp, &page)
	if len(page.PointMap.Points) != 1 || page.HexMap.Layer == nil {
		t.Fatalf("expected one pickup on both maps, got %+v / %+v", page.PointMap, page.HexMap)
	}
	if len(page.Histogram.Bars) != 24 {
		t.Fatalf("expected 24 histogram bars, got %d", len(page.Histogram.Bars))
	}
}

func TestDashboardEmptyHourShowsNotice(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?hour=3&raw=true", nil)
	resp := doRequest(t, app, req, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var page dashboard.Page
	decode(t, resp, &page)
	if page.PointMap.Notice == nil || page.HexMap.Notice == nil {
		t.Fatalf("expected no-data notices, got %+v / %+v", page.PointMap, page.HexMap)
	}
	if page.Raw == nil || len(page.Raw.Rows) != 3 {
		t.Fatalf("expected the raw table, got %+v", page.Raw)
	}
}

func TestDashboardQueryValidation(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	for _, query := range []string{"hour=24", "hour=-1", "hour=five", "date=09/01/2014"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?"+query, nil)
		resp := doRequest(t, app, req, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", query, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestDashboardSchemaError(t *testing.T) {
	app := newTestApp(staticSource{body: "Date/Time,Lon\n9/1/2014 0:01:00,-73.9\n"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := doRequest(t, app, req, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}

	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	decode(t, resp, &body)
	if !body.Error || !strings.Contains(body.Message, "lat") {
		t.Fatalf("unexpected error body %+v", body)
	}
}

func TestDashboardFetchError(t *testing.T) {
	app := newTestApp(staticSource{err: fmt.Errorf("%w: connection refused", pickups.ErrDataFetch)})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	resp := doRequest(t, app, req, nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, resp.StatusCode)
	}
}

func TestCounterIsPerSession(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/counter", nil), nil)
	cookie := sessionCookieOf(t, resp)

	for want := 1; want <= 3; want++ {
		resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/counter/increment", nil), cookie)
		var got struct {
			Count int `json:"count"`
		}
		decode(t, resp, &got)
		if got.Count != want {
			t.Fatalf("expected count %d, got %d", want, got.Count)
		}
	}

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil), cookie)
	var page dashboard.Page
	decode(t, resp, &page)
	if page.Counter.Count != 3 {
		t.Fatalf("expected the dashboard to show 3, got %d", page.Counter.Count)
	}

	// a new visitor starts from zero
	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/counter", nil), nil)
	var fresh struct {
		Count int `json:"count"`
	}
	decode(t, resp, &fresh)
	if fresh.Count != 0 {
		t.Fatalf("expected a new session to start at 0, got %d", fresh.Count)
	}
}

func TestCounterFormRedirectsBack(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	req := httptest.NewRequest(http.MethodPost, "/counter?hour=5", nil)
	resp := doRequest(t, app, req, nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/?hour=5" {
		t.Fatalf("unexpected redirect %q", loc)
	}
}

func multipartUpload(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadThenExplore(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/explore", nil), nil)
	cookie := sessionCookieOf(t, resp)
	var empty dashboard.ExplorePage
	decode(t, resp, &empty)
	if empty.Notice == nil || empty.Chart != nil {
		t.Fatalf("expected an upload prompt, got %+v", empty)
	}

	resp = doRequest(t, app, multipartUpload(t, "/api/v1/upload", "pickups.csv", []byte(pickupsCSV)), cookie)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	var summary struct {
		Key  string `json:"key"`
		Rows int    `json:"rows"`
	}
	decode(t, resp, &summary)
	if summary.Rows != 3 || !strings.HasPrefix(summary.Key, "upload:") {
		t.Fatalf("unexpected summary %+v", summary)
	}

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/explore?column=base", nil), cookie)
	var page dashboard.ExplorePage
	decode(t, resp, &page)
	if page.Selected != "base" || len(page.Counts) != 2 || page.Counts[0].Value != "B02512" {
		t.Fatalf("unexpected explore page %+v", page)
	}

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/explore?column=nope", nil), cookie)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestUploadRejectsBadHeaders(t *testing.T) {
	cases := map[string]string{
		"missing lat":   "Date/Time,Lon\n9/1/2014 0:01:00,-73.9\n9/1/2014 0:02:00,-73.8\n",
		"duplicate lat": "Date/Time,Lat,Lon,LAT\n9/1/2014 0:01:00,40.2,-74,1\n9/1/2014 0:02:00,40.3,-74,2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(staticSource{body: pickupsCSV})

			resp := doRequest(t, app, multipartUpload(t, "/api/v1/upload", "bad.csv", []byte(content)), nil)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
			}
		})
	}
}

func TestConcurrentDuplicateHeaderUploads(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})
	content := []byte("Date/Time,Lat,Lon,lat\n9/1/2014 0:01:00,40.2,-74,1\n9/1/2014 0:02:00,40.3,-74,2\n")

	const uploads = 8
	codes := make(chan int, uploads)
	for i := 0; i < uploads; i++ {
		req := multipartUpload(t, "/api/v1/upload", "dup.csv", content)
		go func() {
			resp, err := app.Test(req, -1)
			if err != nil {
				codes <- 0
				return
			}
			codes <- resp.StatusCode
		}()
	}
	for i := 0; i < uploads; i++ {
		if code := <-codes; code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, code)
		}
	}
}

func TestUploadRequiresFile(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	resp := doRequest(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/upload", nil), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHTMLPages(t *testing.T) {
	app := newTestApp(staticSource{body: pickupsCSV})

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/?hour=17", nil), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Uber pickups in NYC") {
		t.Fatal("expected the dashboard title")
	}

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/charts/pickups-by-hour.png", nil), nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected chart response %d %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/explore", nil), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestHTMLErrorPage(t *testing.T) {
	app := newTestApp(staticSource{body: "Date/Time,Lon\n9/1/2014 0:01:00,-73.9\n"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp := doRequest(t, app, req, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "missing column") {
		t.Fatalf("expected the schema error on the page, got %s", body)
	}
}
