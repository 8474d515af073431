package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/dmitrijs2005/streamdesk/internal/common"
)

var streamStartHTML = template.Must(template.New("stream-start").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #e74c3c;">🔴 Live Stream Started</h2>
  <p>A new live stream <strong>"{{.Name}}"</strong> has started!</p>
  <p>Join now to watch the live broadcast.</p>
  <div style="margin: 20px 0; padding: 15px; background-color: #f8f9fa; border-left: 4px solid #e74c3c;">
    <strong>Stream Name:</strong> {{.Name}}<br>
    <strong>Started:</strong> {{.Started}}
  </div>
  <p style="color: #666; font-size: 12px;">This is an automated notification from the Camera Stream Manager.</p>
</div>
`))

// StreamStartMail renders the subject and bodies announcing streamName.
func StreamStartMail(streamName string, started time.Time) (subject, text, html string, err error) {
	subject = fmt.Sprintf("🔴 Live Stream Started: %s", streamName)
	text = fmt.Sprintf("A new live stream \"%s\" has started! Join now to watch the live broadcast.", streamName)

	var buf bytes.Buffer
	err = streamStartHTML.Execute(&buf, struct {
		Name    string
		Started string
	}{streamName, started.UTC().Format(time.RFC1123)})
	if err != nil {
		return "", "", "", fmt.Errorf("render notification: %w", err)
	}
	return subject, text, buf.String(), nil
}

// NotifyStreamStart broadcasts the stream-start announcement to every user.
func (s *MessageService) NotifyStreamStart(ctx context.Context, streamName string) (*DeliveryReport, error) {
	streamName = strings.TrimSpace(streamName)
	if streamName == "" {
		return nil, fmt.Errorf("stream name is required: %w", common.ErrorValidation)
	}

	subject, text, html, err := StreamStartMail(streamName, time.Now())
	if err != nil {
		return nil, common.ErrorInternal
	}
	return s.Broadcast(ctx, subject, text, html)
}
