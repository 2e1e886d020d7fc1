package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
)

func (h *Handler) ReportRevenue(c *gin.Context) {
	authorID := c.Query("author_id")
	if authorID == "" {
		h.badRequest(c, "author_id is required")
		return
	}

	rows, err := h.ReportSvc.GetRevenue(c.Request.Context(), authorID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		AuthorID string        `json:"author_id"`
		Revenue  []dto.Revenue `json:"revenue"`
	}{
		AuthorID: authorID,
		Revenue:  make([]dto.Revenue, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Revenue = append(resp.Revenue, dto.Revenue{
			Currency:       r.Currency,
			Total:          r.Total,
			Donations:      r.Donations,
			LastDonationAt: r.LastDonationAt,
		})
	}

	c.JSON(http.StatusOK, resp)
}
