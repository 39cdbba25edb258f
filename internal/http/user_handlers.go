package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"muuapp-api/internal/domain"
)

type createUserRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse keeps the field names the MuuApp frontend already reads.
type UserResponse struct {
	ID        string           `json:"_id"`
	FullName  string           `json:"fullname"`
	Email     string           `json:"email"`
	Ranchs    *[]RanchResponse `json:"ranchs,omitempty"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt"`
}

type RanchResponse struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	CreatedAt string `json:"createdAt"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i], false)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, userToResponse(*user, true))
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadRequest})
		return
	}

	if _, err := h.users.Create(c.Request.Context(), req.FullName, req.Email, req.Password); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": domain.MsgUserCreated})
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": domain.MsgUserDeleted})
}

func userToResponse(user domain.User, withRanches bool) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if withRanches {
		ranchs := make([]RanchResponse, len(user.Ranches))
		for i, r := range user.Ranches {
			ranchs[i] = RanchResponse{
				ID:        r.ID,
				Name:      r.Name,
				Location:  r.Location,
				CreatedAt: r.CreatedAt.Format(time.RFC3339),
			}
		}
		resp.Ranchs = &ranchs
	}
	return resp
}
