package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/pickups-dashboard/internal/dashboard"
	"github.com/i474232898/pickups-dashboard/internal/pickups"
	"github.com/i474232898/pickups-dashboard/internal/pickups/sources"
	"github.com/i474232898/pickups-dashboard/internal/session"
)

// Options carries the deployment settings the handlers need.
type Options struct {
	RowLimit       int
	DefaultHour    int
	RawPreviewRows int
	ExploreTopN    int
}

type handler struct {
	service  *pickups.Service
	sessions *session.MemoryStore
	opts     Options
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *pickups.Service, sessions *session.MemoryStore, opts Options) {
	h := &handler{service: service, sessions: sessions, opts: opts}

	app.Use(sessionMiddleware)

	// Browser pages.
	app.Get("/", h.getDashboardHTML)
	app.Post("/counter", h.postCounterHTML)
	app.Get("/explore", h.getExploreHTML)
	app.Post("/explore/upload", h.postUploadHTML)
	app.Get("/charts/pickups-by-hour.png", h.getHourChart)
	app.Get("/charts/explore.png", h.getExploreChart)

	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		page, err := h.dashboardPage(c)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})

	v1.Get("/counter", func(c *fiber.Ctx) error {
		sess := h.sessions.Load(sessionID(c))
		return c.JSON(fiber.Map{"count": sess.Counter})
	})

	v1.Post("/counter/increment", func(c *fiber.Ctx) error {
		sess := h.increment(c)
		return c.JSON(fiber.Map{"count": sess.Counter})
	})

	v1.Post("/upload", func(c *fiber.Ctx) error {
		ds, err := h.upload(c)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"key":     ds.Key,
			"source":  ds.Source,
			"rows":    ds.Len(),
			"columns": ds.Columns,
		})
	})

	v1.Get("/explore", func(c *fiber.Ctx) error {
		page, err := h.explorePage(c)
		if err != nil {
			return err
		}
		return c.JSON(page)
	})
}

// dashboardPage runs one render pass: bind the controls, load (or reuse) the dataset,
// read the session counter and describe the page.
func (h *handler) dashboardPage(c *fiber.Ctx) (*dashboard.Page, error) {
	var q dashboardQuery
	if err := q.bind(c, h.opts.DefaultHour); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ds, err := h.service.Load(c.UserContext(), h.opts.RowLimit)
	if err != nil {
		return nil, loadError(err)
	}

	sess := h.sessions.Load(sessionID(c))
	page := dashboard.Render(ds, q.state(sess.Counter), dashboard.Options{
		RawPreviewRows: h.opts.RawPreviewRows,
	})
	return &page, nil
}

func (h *handler) explorePage(c *fiber.Ctx) (*dashboard.ExplorePage, error) {
	var q exploreQuery
	if err := q.bind(c); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sess := h.sessions.Load(sessionID(c))
	var ds *pickups.Dataset
	if sess.UploadKey != "" {
		ds, _ = h.service.Cached(sess.UploadKey)
	}

	page, err := dashboard.RenderExplore(ds, q.Column, h.opts.ExploreTopN)
	if err != nil {
		return nil, loadError(err)
	}
	return &page, nil
}

func (h *handler) increment(c *fiber.Ctx) session.Session {
	sess := h.sessions.Load(sessionID(c)).Increment()
	h.sessions.Save(sess)
	return sess
}

// upload loads the multipart "file" field and remembers it as the session's dataset.
func (h *handler) upload(c *fiber.Ctx) (*pickups.Dataset, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	src, err := sources.NewUploadSource(fh.Filename, data)
	if err != nil {
		return nil, uploadError(err)
	}
	ds, err := h.service.LoadUpload(c.UserContext(), src)
	if err != nil {
		return nil, uploadError(err)
	}

	sess := h.sessions.Load(sessionID(c))
	sess.UploadKey = ds.Key
	h.sessions.Save(sess)
	return ds, nil
}

func (h *handler) getDashboardHTML(c *fiber.Ctx) error {
	page, err := h.dashboardPage(c)
	if err != nil {
		return err
	}

	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	var buf bytes.Buffer
	if err := dashboard.WriteHTML(&buf, page, nil, query); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *handler) postCounterHTML(c *fiber.Ctx) error {
	h.increment(c)

	location := "/"
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		location += "?" + qs
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

func (h *handler) getExploreHTML(c *fiber.Ctx) error {
	page, err := h.explorePage(c)
	return h.sendExploreHTML(c, page, err)
}

func (h *handler) postUploadHTML(c *fiber.Ctx) error {
	if _, err := h.upload(c); err != nil {
		return h.sendExploreHTML(c, nil, err)
	}
	return c.Redirect("/explore", fiber.StatusSeeOther)
}

func (h *handler) sendExploreHTML(c *fiber.Ctx, page *dashboard.ExplorePage, pageErr error) error {
	status := fiber.StatusOK
	if pageErr != nil {
		status = statusOf(pageErr)
	}

	var buf bytes.Buffer
	if err := dashboard.WriteExploreHTML(&buf, page, pageErr); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func (h *handler) getHourChart(c *fiber.Ctx) error {
	ds, err := h.service.Load(c.UserContext(), h.opts.RowLimit)
	if err != nil {
		return loadError(err)
	}
	return sendChartPNG(c, dashboard.HourChart(ds.Records))
}

func (h *handler) getExploreChart(c *fiber.Ctx) error {
	page, err := h.explorePage(c)
	if err != nil {
		return err
	}
	if page.Chart == nil {
		return fiber.NewError(fiber.StatusNotFound, "no uploaded dataset to chart")
	}
	return sendChartPNG(c, *page.Chart)
}

func sendChartPNG(c *fiber.Ctx, chart dashboard.Chart) error {
	var buf bytes.Buffer
	if err := dashboard.WriteChartPNG(&buf, chart); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to render chart")
	}
	c.Type("png")
	return c.Send(buf.Bytes())
}

// loadError maps loader errors onto HTTP errors.
func loadError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, pickups.ErrSchema):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, pickups.ErrDataFetch):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, pickups.ErrUnknownColumn):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load dataset")
	}
}

// uploadError reports unreadable uploads as a client error rather than a bad gateway.
func uploadError(err error) error {
	if errors.Is(err, pickups.ErrDataFetch) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return loadError(err)
}

func statusOf(err error) int {
	var fe *fiber.Error
	if errors.As(loadError(err), &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
