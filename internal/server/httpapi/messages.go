package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type sendRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type streamStartRequest struct {
	StreamName string `json:"streamName"`
}

func (h *handler) inbox(c *gin.Context) {
	list, err := h.Messages.Inbox(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) sent(c *gin.Context) {
	list, err := h.Messages.Sent(c.Request.Context(), identity(c).UserID)
	if err != nil {
		h.writeError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.To == "" || req.Subject == "" || req.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "To, subject, and body are required"})
		return
	}

	msg, err := h.Messages.Send(c.Request.Context(), identity(c), req.To, req.Subject, req.Body)
	if err != nil {
		h.writeError(c, err, map[int]string{http.StatusBadRequest: "To, subject, and body are required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully", "id": msg.ID})
}

func (h *handler) markRead(c *gin.Context) {
	err := h.Messages.MarkRead(c.Request.Context(), identity(c).UserID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, map[int]string{http.StatusNotFound: "Email not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email marked as read"})
}

func (h *handler) notifyStreamStart(c *gin.Context) {
	var req streamStartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StreamName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stream name is required"})
		return
	}

	report, err := h.Messages.NotifyStreamStart(c.Request.Context(), req.StreamName)
	if err != nil {
		h.writeError(c, err, map[int]string{
			http.StatusBadRequest:          "Stream name is required",
			http.StatusInternalServerError: "Failed to send stream notifications",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    fmt.Sprintf("Stream notification sent to %d users", report.Attempted),
		"recipients": report.Attempted,
		"delivered":  report.Delivered,
		"failed":     len(report.Failures),
	})
}
