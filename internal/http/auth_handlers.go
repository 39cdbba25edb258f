package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"muuapp-api/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  string `json:"user"`
	Msg   string `json:"msg"`
}

type sendEmailRequest struct {
	Email string `json:"email"`
}

type sendEmailResponse struct {
	Msg       string `json:"msg"`
	MessageID string `json:"messageId"`
}

type newPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadRequest})
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: res.Token,
		User:  res.UserID,
		Msg:   domain.MsgLoggedIn,
	})
}

func (h *Handler) sendResetEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadRequest})
		return
	}

	id, err := h.auth.SendResetEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sendEmailResponse{Msg: domain.MsgMailSent, MessageID: id})
}

func (h *Handler) newPassword(c *gin.Context) {
	var req newPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadRequest})
		return
	}

	updated, err := h.auth.UpdatePassword(c.Request.Context(), req.Email, req.Password, req.Token)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusOK, gin.H{"msg": domain.MsgEmailNotFound})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": domain.MsgPasswordUpdated})
}
