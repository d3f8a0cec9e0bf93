package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-booking/internal/httperr"
	"github.com/BruksfildServices01/studio-booking/internal/timezone"
)

// startFields is embedded by requests that carry a start time: either
// start_time as RFC 3339, or date + time read in business time.
type startFields struct {
	StartTime *time.Time `json:"start_time"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
}

func (s startFields) resolve(loc *time.Location) (time.Time, error) {
	if s.StartTime != nil {
		return s.StartTime.In(loc), nil
	}
	if s.Date == "" || s.Time == "" {
		return time.Time{}, httperr.ErrValidation("start_time", "required")
	}
	t, err := timezone.ParseDateTime(s.Date, s.Time, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("start_time", "invalid_date_or_time")
	}
	return t, nil
}

// queryDate reads ?date=YYYY-MM-DD in business time, defaulting to today.
func queryDate(c *gin.Context, loc *time.Location, now time.Time) (time.Time, error) {
	dateStr := c.Query("date")
	if dateStr == "" {
		return now.In(loc), nil
	}
	d, err := timezone.ParseDate(dateStr, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("date", "invalid_date")
	}
	return d, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, httperr.ErrValidation(key, "invalid_number")
	}
	return n, nil
}

func queryBool(c *gin.Context, key string) bool {
	b, _ := strconv.ParseBool(c.Query(key))
	return b
}
