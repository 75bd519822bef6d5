package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/pickups-dashboard/internal/dashboard"
)

var validate = validator.New()

// dashboardQuery holds the dashboard controls: raw toggle, date picker, hour slider.
type dashboardQuery struct {
	Raw  bool
	Date string `validate:"omitempty,datetime=2006-01-02"`
	Hour int    `validate:"gte=0,lte=23"`
}

func (q *dashboardQuery) bind(c *fiber.Ctx, defaultHour int) error {
	q.Raw = c.QueryBool("raw", false)
	q.Date = c.Query("date")
	q.Hour = defaultHour

	if s := c.Query("hour"); s != "" {
		hour, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("hour must be an integer between 0 and 23")
		}
		q.Hour = hour
	}

	return validate.Struct(q)
}

// state turns the bound controls and the session counter into a render state.
func (q dashboardQuery) state(counter int) dashboard.State {
	st := dashboard.State{
		ShowRaw: q.Raw,
		Hour:    q.Hour,
		Counter: counter,
	}
	if q.Date != "" {
		// already validated against the same layout
		st.Date, _ = time.Parse(dashboard.DateLayout, q.Date)
	}
	return st
}

// exploreQuery holds the column selector.
type exploreQuery struct {
	Column string `validate:"max=128"`
}

func (q *exploreQuery) bind(c *fiber.Ctx) error {
	q.Column = c.Query("column")
	return validate.Struct(q)
}
