package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pubhub/internal/app/dto"
	"pubhub/internal/domain/user"
)

func toUserDTO(u *user.User) dto.User {
	return dto.User{
		UserID:      u.ID(),
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Role:        string(u.Role),
		Following:   append([]string{}, u.Following...),
		CreatedAt:   u.CreatedAt(),
		DeletedAt:   u.DeletedAt(),
	}
}

func (h *Handler) UserRegister(c *gin.Context) {
	var body struct {
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Role        string `json:"role"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.Username == "" || body.Email == "" || body.Role == "" {
		h.badRequest(c, "username, email, role are required")
		return
	}

	u, err := h.UserSvc.Register(c.Request.Context(), body.Username, body.DisplayName, body.Email, user.Role(body.Role))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserDTO(u)})
}

func (h *Handler) UserUpdate(c *gin.Context) {
	var body struct {
		UserID      string `json:"user_id"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.UserID == "" {
		h.badRequest(c, "user_id is required")
		return
	}

	u, err := h.UserSvc.UpdateProfile(c.Request.Context(), body.UserID, body.DisplayName, body.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserDTO(u)})
}

type followBody struct {
	UserID   string `json:"user_id"`
	AuthorID string `json:"author_id"`
}

func (h *Handler) bindFollow(c *gin.Context) (followBody, bool) {
	var body followBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return body, false
	}
	if body.UserID == "" || body.AuthorID == "" {
		h.badRequest(c, "user_id, author_id are required")
		return body, false
	}
	return body, true
}

func (h *Handler) UserFollow(c *gin.Context) {
	body, ok := h.bindFollow(c)
	if !ok {
		return
	}
	if err := h.UserSvc.Follow(c.Request.Context(), body.UserID, body.AuthorID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UserUnfollow(c *gin.Context) {
	body, ok := h.bindFollow(c)
	if !ok {
		return
	}
	if err := h.UserSvc.Unfollow(c.Request.Context(), body.UserID, body.AuthorID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UserDeactivate(c *gin.Context) {
	var body struct {
		UserID string `json:"user_id"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "invalid JSON")
		return
	}
	if body.UserID == "" {
		h.badRequest(c, "user_id is required")
		return
	}

	if err := h.UserSvc.Deactivate(c.Request.Context(), body.UserID); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UserGet(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		h.badRequest(c, "user_id is required")
		return
	}

	u, err := h.UserSvc.Get(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserDTO(u)})
}
