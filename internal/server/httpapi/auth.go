package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  models.Recipient `json:"user"`
}

func (h *handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	u, err := h.Credentials.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		h.writeError(c, err, nil)
		return
	}
	h.issueSession(c, u)
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	u, err := h.Credentials.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	h.issueSession(c, u)
}

func (h *handler) issueSession(c *gin.Context, u *models.User) {
	token, err := h.Tokens.Issue(u)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: token, User: models.Recipient{ID: u.ID, Email: u.Email}})
}

func (h *handler) logout(c *gin.Context) {
	token := c.GetString(ctxToken)
	if err := h.Tokens.Revoke(c.Request.Context(), token); err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *handler) users(c *gin.Context) {
	list, err := h.Credentials.ListRecipients(c.Request.Context())
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, list)
}
