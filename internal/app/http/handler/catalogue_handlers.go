package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
	"pubhub/internal/domain/catalogue"
)

func toEntryDTO(e catalogue.Entry) dto.Entry {
	return dto.Entry{
		PublicationID: e.PublicationID,
		AuthorID:      e.AuthorID,
		Name:          e.Name,
		Synopsis:      e.Synopsis,
		Likes:         e.Likes,
		Views:         e.Views,
		Reviews:       e.Reviews,
		Rating:        e.Rating,
		PublishedAt:   e.PublishedAt,
	}
}

func (h *Handler) CatalogueAuthor(c *gin.Context) {
	id := c.Query("author_id")
	if id == "" {
		h.badRequest(c, "author_id is required")
		return
	}

	a, err := h.CatalogueSvc.GetAuthor(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": dto.Author{
		AuthorID:     a.ID,
		Username:     a.Username,
		DisplayName:  a.DisplayName,
		Followers:    a.Followers,
		Publications: a.Publications,
	}})
}

func (h *Handler) CatalogueEntry(c *gin.Context) {
	id := c.Query("publication_id")
	if id == "" {
		h.badRequest(c, "publication_id is required")
		return
	}

	e, err := h.CatalogueSvc.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": toEntryDTO(e)})
}

// CatalogueEntries lists published entries, optionally for one author.
func (h *Handler) CatalogueEntries(c *gin.Context) {
	list, err := h.CatalogueSvc.ListEntries(c.Request.Context(), c.Query("author_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		Entries []dto.Entry `json:"entries"`
	}{
		Entries: make([]dto.Entry, 0, len(list)),
	}
	for _, e := range list {
		resp.Entries = append(resp.Entries, toEntryDTO(e))
	}

	c.JSON(http.StatusOK, resp)
}
