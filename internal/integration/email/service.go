package email

import (
	"context"
	"strings"

	"github.com/checks-dashboard/backend/internal/application/adapter"
	"github.com/checks-dashboard/backend/internal/domain/entity"
	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
	"github.com/checks-dashboard/backend/internal/integration/email/templates"
)

// ReminderSender renders check reminders and hands them to a Mailer.
type ReminderSender struct {
	mailer     Mailer
	renderer   *templates.Renderer
	appBaseURL string
}

// NewReminderSender creates a new reminder sender.
func NewReminderSender(mailer Mailer, renderer *templates.Renderer, appBaseURL string) *ReminderSender {
	return &ReminderSender{
		mailer:     mailer,
		renderer:   renderer,
		appBaseURL: appBaseURL,
	}
}

// Send renders and delivers a reminder.
func (s *ReminderSender) Send(ctx context.Context, r *entity.Reminder) (*adapter.SendReminderResult, error) {
	if strings.TrimSpace(r.RecipientEmail) == "" {
		return nil, domainerror.NewReminderError(
			domainerror.ErrCodePermanentSendFailure,
			"reminder has no recipient",
			domainerror.ErrReminderSendFailed,
		)
	}

	html, text, err := s.renderer.Render(templates.TemplateCheckReminder, templates.CheckReminderData{
		Title:        r.Title,
		Message:      r.Body,
		Priority:     string(r.Priority),
		DashboardURL: strings.TrimRight(s.appBaseURL, "/") + "/checks/" + r.CheckID,
	})
	if err != nil {
		return nil, domainerror.NewReminderError(domainerror.ErrCodeInvalidTemplate, "failed to render reminder", err)
	}

	providerID, err := s.mailer.Send(ctx, Message{
		To:      r.RecipientEmail,
		Subject: r.Title + ": " + r.Body,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return nil, err
	}

	return &adapter.SendReminderResult{ProviderID: providerID}, nil
}

// Ensure ReminderSender implements adapter.ReminderSender.
var _ adapter.ReminderSender = (*ReminderSender)(nil)
