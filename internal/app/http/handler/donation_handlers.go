package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
	"pubhub/internal/domain/donation"
)

func toDonationDTO(d *donation.Donation) dto.Donation {
	return dto.Donation{
		DonationID: d.ID(),
		ReaderID:   d.ReaderID,
		AuthorID:   d.AuthorID,
		Amount:     d.Amount,
		Currency:   d.Currency,
		Message:    d.Message,
		Status:     string(d.Status),
		Reference:  d.Reference,
		CreatedAt:  d.CreatedAt(),
		PaidAt:     d.PaidAt,
	}
}

func (h *Handler) DonationCreate(c *gin.Context) {
	var body struct {
		ReaderID string `json:"reader_id"`
		AuthorID string `json:"author_id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Message  string `json:"message"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.ReaderID == "" || body.AuthorID == "" || body.Currency == "" {
		h.badRequest(c, "reader_id, author_id, currency are required")
		return
	}

	d, err := h.DonationSvc.Donate(c.Request.Context(), body.ReaderID, body.AuthorID, body.Amount, body.Currency, body.Message)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"donation": toDonationDTO(d)})
}

func (h *Handler) DonationPay(c *gin.Context) {
	var body struct {
		ReaderID   string `json:"reader_id"`
		DonationID string `json:"donation_id"`
		Reference  string `json:"reference"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.ReaderID == "" || body.DonationID == "" {
		h.badRequest(c, "reader_id, donation_id are required")
		return
	}

	d, err := h.DonationSvc.Pay(c.Request.Context(), body.ReaderID, body.DonationID, body.Reference)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donation": toDonationDTO(d)})
}

func (h *Handler) DonationCancel(c *gin.Context) {
	var body struct {
		ReaderID   string `json:"reader_id"`
		DonationID string `json:"donation_id"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.ReaderID == "" || body.DonationID == "" {
		h.badRequest(c, "reader_id, donation_id are required")
		return
	}

	d, err := h.DonationSvc.Cancel(c.Request.Context(), body.ReaderID, body.DonationID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donation": toDonationDTO(d)})
}

func (h *Handler) DonationGet(c *gin.Context) {
	id := c.Query("donation_id")
	if id == "" {
		h.badRequest(c, "donation_id is required")
		return
	}

	d, err := h.DonationSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"donation": toDonationDTO(d)})
}
