package v1

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"task-dashboard/internal/chart"
)

type chartQuery struct {
	Thickness float64 `form:"thickness" binding:"omitempty,gte=0.1,lte=1"`
	SortBy    string  `form:"sort" binding:"omitempty,oneof=start end name owner"`
	ColorBy   string  `form:"color" binding:"omitempty,oneof=owner period"`
	Width     int     `form:"width" binding:"omitempty,gte=10,lte=400"`
	Example   bool    `form:"example"`
}

// HandleChart renders the timeline as text/plain. ?example=true draws the
// built-in sample data instead of the stored tasks.
func (h *handlerImpl) HandleChart(c *gin.Context) {
	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	opts := chart.Options{
		Thickness: q.Thickness,
		SortBy:    q.SortBy,
		ColorBy:   q.ColorBy,
		Width:     q.Width,
	}

	var buf bytes.Buffer
	var err error
	if q.Example {
		err = h.api.RenderExampleChart(&buf, opts)
	} else {
		err = h.api.RenderChart(c, &buf, filterFromQuery(c), opts)
	}
	if err != nil {
		h.fail(c, "render chart", err)
		return
	}

	c.Header("Content-Length", strconv.Itoa(buf.Len()))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
