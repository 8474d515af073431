package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/dmitrijs2005/streamdesk/internal/common"
	"github.com/dmitrijs2005/streamdesk/internal/logging"
	"github.com/dmitrijs2005/streamdesk/internal/server/auth"
	"github.com/dmitrijs2005/streamdesk/internal/server/config"
	"github.com/dmitrijs2005/streamdesk/internal/server/mailer"
	"github.com/dmitrijs2005/streamdesk/internal/server/models"
	"github.com/dmitrijs2005/streamdesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DeliveryFailure is one recipient a broadcast could not reach.
type DeliveryFailure struct {
	Recipient string
	Err       error
}

// DeliveryReport summarises a broadcast once every attempt has finished.
type DeliveryReport struct {
	Attempted int
	Delivered int
	Failures  []DeliveryFailure
}

// MessageService sends user mail and system broadcasts and keeps the
// outbox and inbox records.
type MessageService struct {
	repomanager  repomanager.RepositoryManager
	sender       mailer.Sender
	log          logging.Logger
	systemSender string
	concurrency  int
}

func NewMessageService(m repomanager.RepositoryManager, sender mailer.Sender, log logging.Logger, cfg *config.Config) *MessageService {
	concurrency := cfg.BroadcastConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &MessageService{
		repomanager:  m,
		sender:       sender,
		log:          log,
		systemSender: cfg.SystemSender,
		concurrency:  concurrency,
	}
}

// Send delivers one message from the authenticated user. Nothing is
// recorded when delivery fails.
func (s *MessageService) Send(ctx context.Context, from auth.Identity, to, subject, body string) (*models.SentMessage, error) {
	to = strings.TrimSpace(to)
	if to == "" || subject == "" || body == "" {
		return nil, fmt.Errorf("to, subject and body are required: %w", common.ErrorValidation)
	}

	err := s.sender.Send(ctx, mailer.Mail{From: from.Email, To: to, Subject: subject, Text: body, HTML: plainToHTML(body)})
	if err != nil {
		s.log.Error(ctx, "mail delivery failed", "to", to, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorTransport, err)
	}

	fromID := from.UserID
	sent, err := s.repomanager.Messages(s.repomanager.DB()).CreateSent(ctx, &models.SentMessage{
		FromUserID: &fromID,
		ToEmail:    to,
		Subject:    subject,
		Body:       body,
	})
	if err != nil {
		s.log.Error(ctx, "error recording sent message", "error", err)
		return nil, common.ErrorInternal
	}

	s.deliverToInbox(ctx, to, from.Email, subject, body)
	return sent, nil
}

// plainToHTML escapes body and keeps its line breaks.
func plainToHTML(body string) string {
	return "<p>" + strings.ReplaceAll(template.HTMLEscapeString(body), "\n", "<br>") + "</p>"
}

// deliverToInbox stores an inbox copy when to belongs to a registered user.
func (s *MessageService) deliverToInbox(ctx context.Context, to, fromEmail, subject, body string) {
	db := s.repomanager.DB()
	u, err := s.repomanager.Users(db).GetByEmail(ctx, to)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "recipient lookup failed", "to", to, "error", err)
		}
		return
	}
	_, err = s.repomanager.Messages(db).CreateInbox(ctx, &models.InboxMessage{
		UserID:    u.ID,
		FromEmail: fromEmail,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		s.log.Warn(ctx, "error recording inbox message", "to", to, "error", err)
	}
}

// Broadcast mails every registered user, at most concurrency at a time.
// Individual failures are collected in the report. Only failing to list the
// recipients fails the call.
func (s *MessageService) Broadcast(ctx context.Context, subject, text, html string) (*DeliveryReport, error) {
	db := s.repomanager.DB()
	recipients, err := s.repomanager.Users(db).List(ctx)
	if err != nil {
		s.log.Error(ctx, "error listing recipients", "error", err)
		return nil, fmt.Errorf("list recipients: %w", common.ErrorInternal)
	}

	report := &DeliveryReport{Attempted: len(recipients)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, r := range recipients {
		r := r
		g.Go(func() error {
			err := s.sender.Send(ctx, mailer.Mail{
				From: s.systemSender, To: r.Email, Subject: subject, Text: text, HTML: html,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Warn(ctx, "broadcast delivery failed", "to", r.Email, "error", err)
				report.Failures = append(report.Failures, DeliveryFailure{
					Recipient: r.Email,
					Err:       fmt.Errorf("%w: %w", common.ErrorTransport, err),
				})
				return nil
			}
			report.Delivered++
			return nil
		})
	}
	_ = g.Wait()

	s.recordBroadcast(ctx, recipients, subject, text)

	s.log.Info(ctx, "broadcast finished",
		"attempted", report.Attempted, "delivered", report.Delivered, "failed", len(report.Failures))
	return report, nil
}

// recordBroadcast writes the system outbox row and then one inbox row per
// recipient. Each write stands alone so one failing recipient does not cost
// the others their copy. Failures are only logged.
func (s *MessageService) recordBroadcast(ctx context.Context, recipients []models.Recipient, subject, body string) {
	repo := s.repomanager.Messages(s.repomanager.DB())

	if _, err := repo.CreateSent(ctx, &models.SentMessage{
		ToEmail:  common.SystemRecipientMarker,
		Subject:  subject,
		Body:     body,
		IsSystem: true,
	}); err != nil {
		s.log.Error(ctx, "error recording broadcast", "error", err)
	}

	for _, r := range recipients {
		if _, err := repo.CreateInbox(ctx, &models.InboxMessage{
			UserID:    r.ID,
			FromEmail: s.systemSender,
			Subject:   subject,
			Body:      body,
		}); err != nil {
			s.log.Warn(ctx, "error recording broadcast inbox message", "to", r.Email, "error", err)
		}
	}
}

// Inbox lists messages received by userID, newest first.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]models.InboxMessage, error) {
	out, err := s.repomanager.Messages(s.repomanager.DB()).ListInbox(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "error listing inbox", "error", err)
		return nil, common.ErrorInternal
	}
	return out, nil
}

// Sent lists messages userID sent, newest first. System broadcasts are not
// included.
func (s *MessageService) Sent(ctx context.Context, userID string) ([]models.SentMessage, error) {
	out, err := s.repomanager.Messages(s.repomanager.DB()).ListSent(ctx, userID)
	if err != nil {
		s.log.Error(ctx, "error listing sent messages", "error", err)
		return nil, common.ErrorInternal
	}
	return out, nil
}

// MarkRead flags an inbox message of userID as read.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return common.ErrorNotFound
	}
	err := s.repomanager.Messages(s.repomanager.DB()).MarkRead(ctx, userID, messageID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrorNotFound
	default:
		s.log.Error(ctx, "error marking message read", "error", err)
		return common.ErrorInternal
	}
}
