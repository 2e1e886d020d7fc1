package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
	"pubhub/internal/domain/eventlog"
)

func (h *Handler) EventList(c *gin.Context) {
	f := eventlog.Filter{
		Topic: c.Query("topic"),
		Code:  c.Query("code"),
	}

	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"from", &f.From}, {"to", &f.To}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.badRequest(c, p.name+" must be an RFC3339 timestamp")
			return
		}
		*p.dst = ts
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.badRequest(c, "limit must be a non-negative integer")
			return
		}
		f.Limit = n
	}

	events, err := h.EventSvc.Find(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		Events []dto.Event `json:"events"`
	}{
		Events: make([]dto.Event, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, dto.Event{
			EventID:   e.ID().String(),
			Topic:     e.Topic(),
			Code:      e.Code(),
			Timestamp: e.Timestamp(),
			Payload:   eventPayload(e.Payload()),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// eventPayload embeds JSON payloads verbatim. The log does not constrain the
// encoding, so anything else is rendered as bytes (base64).
func eventPayload(p []byte) any {
	switch {
	case len(p) == 0:
		return nil
	case json.Valid(p):
		return json.RawMessage(p)
	default:
		return p
	}
}
