package params

import (
	"strconv"

	"team-calendar-api/core/constants"

	"github.com/labstack/echo/v4"
)

type QueryParams struct {
	Skip             int
	Limit            int
	IncludeCancelled bool
}

// NewQueryParams reads skip, limit and include_cancelled from the query
// string. Bad or missing values fall back to defaults.
func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{
		Skip:  toIntWithDefault(c.QueryParam("skip"), 0),
		Limit: toIntWithDefault(c.QueryParam("limit"), constants.DefaultMeetingListLimit),
	}
	if v, err := strconv.ParseBool(c.QueryParam("include_cancelled")); err == nil {
		p.IncludeCancelled = v
	}
	p.Normalize()
	return p
}

// Normalize clamps skip and limit into the supported range.
func (p *QueryParams) Normalize() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = constants.DefaultMeetingListLimit
	}
	if p.Limit > constants.MaxMeetingListLimit {
		p.Limit = constants.MaxMeetingListLimit
	}
}

func toIntWithDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
