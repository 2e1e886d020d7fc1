package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
	"pubhub/internal/domain/publication"
)

func toPublicationDTO(p *publication.Publication) dto.Publication {
	res := dto.Publication{
		PublicationID: p.ID(),
		AuthorID:      p.AuthorID,
		Name:          p.Name,
		Synopsis:      p.Synopsis,
		Status:        string(p.Status),
		Likes:         len(p.Likes),
		Views:         p.Views,
		Rating:        p.Rating(),
		Reviews:       make([]dto.Review, 0, len(p.Reviews)),
		CreatedAt:     p.CreatedAt(),
		PublishedAt:   p.PublishedAt,
	}
	for _, r := range p.Reviews {
		res.Reviews = append(res.Reviews, dto.Review{
			ReaderID:  r.ReaderID,
			Stars:     r.Stars,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return res
}

func (h *Handler) PublicationCreate(c *gin.Context) {
	var body struct {
		AuthorID string `json:"author_id"`
		Name     string `json:"name"`
		Synopsis string `json:"synopsis"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.AuthorID == "" || body.Name == "" {
		h.badRequest(c, "author_id, name are required")
		return
	}

	p, err := h.PublicationSvc.Create(c.Request.Context(), body.AuthorID, body.Name, body.Synopsis)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"publication": toPublicationDTO(p)})
}

func (h *Handler) PublicationUpdate(c *gin.Context) {
	var body struct {
		AuthorID      string `json:"author_id"`
		PublicationID string `json:"publication_id"`
		Name          string `json:"name"`
		Synopsis      string `json:"synopsis"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.AuthorID == "" || body.PublicationID == "" {
		h.badRequest(c, "author_id, publication_id are required")
		return
	}

	p, err := h.PublicationSvc.Update(c.Request.Context(), body.AuthorID, body.PublicationID, body.Name, body.Synopsis)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"publication": toPublicationDTO(p)})
}

// actionBody is shared by the single-actor publication endpoints.
type actionBody struct {
	ActorID       string `json:"actor_id"`
	PublicationID string `json:"publication_id"`
}

func (h *Handler) bindAction(c *gin.Context) (actionBody, bool) {
	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return body, false
	}
	if body.ActorID == "" || body.PublicationID == "" {
		h.badRequest(c, "actor_id, publication_id are required")
		return body, false
	}
	return body, true
}

func (h *Handler) PublicationPublish(c *gin.Context) {
	body, ok := h.bindAction(c)
	if !ok {
		return
	}
	p, err := h.PublicationSvc.Publish(c.Request.Context(), body.ActorID, body.PublicationID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": toPublicationDTO(p)})
}

func (h *Handler) PublicationLike(c *gin.Context) {
	body, ok := h.bindAction(c)
	if !ok {
		return
	}
	if err := h.PublicationSvc.Like(c.Request.Context(), body.ActorID, body.PublicationID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PublicationUnlike(c *gin.Context) {
	body, ok := h.bindAction(c)
	if !ok {
		return
	}
	if err := h.PublicationSvc.Unlike(c.Request.Context(), body.ActorID, body.PublicationID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PublicationRead(c *gin.Context) {
	body, ok := h.bindAction(c)
	if !ok {
		return
	}
	p, err := h.PublicationSvc.Read(c.Request.Context(), body.ActorID, body.PublicationID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": toPublicationDTO(p)})
}

func (h *Handler) PublicationReview(c *gin.Context) {
	var body struct {
		ReaderID      string `json:"reader_id"`
		PublicationID string `json:"publication_id"`
		Stars         int    `json:"stars"`
		Comment       string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.ReaderID == "" || body.PublicationID == "" {
		h.badRequest(c, "reader_id, publication_id are required")
		return
	}

	err := h.PublicationSvc.Review(c.Request.Context(), body.ReaderID, body.PublicationID, body.Stars, body.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PublicationDelete(c *gin.Context) {
	body, ok := h.bindAction(c)
	if !ok {
		return
	}
	if err := h.PublicationSvc.Delete(c.Request.Context(), body.ActorID, body.PublicationID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) PublicationGet(c *gin.Context) {
	id := c.Query("publication_id")
	if id == "" {
		h.badRequest(c, "publication_id is required")
		return
	}

	p, err := h.PublicationSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": toPublicationDTO(p)})
}

func (h *Handler) PublicationList(c *gin.Context) {
	authorID := c.Query("author_id")
	if authorID == "" {
		h.badRequest(c, "author_id is required")
		return
	}

	list, err := h.PublicationSvc.ListByAuthor(c.Request.Context(), authorID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := struct {
		AuthorID     string                 `json:"author_id"`
		Publications []dto.PublicationShort `json:"publications"`
	}{
		AuthorID:     authorID,
		Publications: make([]dto.PublicationShort, 0, len(list)),
	}
	for _, p := range list {
		resp.Publications = append(resp.Publications, dto.PublicationShort{
			PublicationID: p.ID(),
			Name:          p.Name,
			Status:        string(p.Status),
		})
	}

	c.JSON(http.StatusOK, resp)
}
