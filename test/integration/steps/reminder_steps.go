package steps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	domainerror "github.com/checks-dashboard/backend/internal/domain/error"
)

// registerReminderSteps registers reminder queue, worker and email steps.
func registerReminderSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the reminder queue should contain (\d+) reminders?$`, theReminderQueueShouldContain)
	ctx.Step(`^the reminder "([^"]*)" should be queued$`, theReminderShouldBeQueued)
	ctx.Step(`^the reminder "([^"]*)" should not be queued$`, theReminderShouldNotBeQueued)
	ctx.Step(`^the reminder worker runs$`, theReminderWorkerRuns)
	ctx.Step(`^the email provider responds with status (\d+)$`, theEmailProviderRespondsWithStatus)
	ctx.Step(`^(\d+) reminder emails? should have been sent$`, reminderEmailsShouldHaveBeenSent)
	ctx.Step(`^reminder email (\d+) should be sent to "([^"]*)"$`, reminderEmailShouldBeSentTo)
	ctx.Step(`^reminder email (\d+) subject should contain "([^"]*)"$`, reminderEmailSubjectShouldContain)
}

func theReminderQueueShouldContain(ctx context.Context, expected int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	pending, err := tc.injector.ReminderQueue.Pending(ctx)
	if err != nil {
		return err
	}
	if int(pending) != expected {
		return fmt.Errorf("expected %d queued reminders, got %d", expected, pending)
	}
	return nil
}

func theReminderShouldBeQueued(ctx context.Context, id string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	id = tc.replacePlaceholders(id)
	if _, err := tc.injector.ReminderQueue.Get(ctx, id); err != nil {
		return fmt.Errorf("expected reminder %s to be queued: %w", id, err)
	}
	return nil
}

func theReminderShouldNotBeQueued(ctx context.Context, id string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	id = tc.replacePlaceholders(id)
	_, err := tc.injector.ReminderQueue.Get(ctx, id)
	if err == nil {
		return fmt.Errorf("expected reminder %s not to be queued", id)
	}
	if !errors.Is(err, domainerror.ErrReminderNotFound) {
		return err
	}
	return nil
}

func theReminderWorkerRuns(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	tc.injector.Worker.ProcessNow(ctx)
	return nil
}

func theEmailProviderRespondsWithStatus(status int) error {
	body := map[string]any{"id": "re_mock"}
	switch {
	case status >= http.StatusInternalServerError:
		body = map[string]any{"statusCode": status, "name": "application_error", "message": "Service temporarily down"}
	case status >= http.StatusBadRequest:
		body = map[string]any{"statusCode": status, "name": "validation_error", "message": "Invalid `to` field"}
	}
	apiMock.SetResponse(http.MethodPost, resendEmailPath, status, body)
	return nil
}

func reminderEmailsShouldHaveBeenSent(expected int) error {
	if got := apiMock.RequestCount(http.MethodPost, resendEmailPath); got != expected {
		return fmt.Errorf("expected %d emails to be sent, got %d", expected, got)
	}
	return nil
}

func reminderEmailShouldBeSentTo(index int, recipient string) error {
	body := apiMock.GetRequestBody(http.MethodPost, resendEmailPath, index-1)
	if body == nil {
		return fmt.Errorf("email %d was not sent", index)
	}

	to := fmt.Sprintf("%v", getFieldValue(body, "to"))
	if !strings.Contains(to, recipient) {
		return fmt.Errorf("expected email %d to be sent to %s, got %s", index, recipient, to)
	}
	return nil
}

func reminderEmailSubjectShouldContain(index int, expected string) error {
	body := apiMock.GetRequestBody(http.MethodPost, resendEmailPath, index-1)
	if body == nil {
		return fmt.Errorf("email %d was not sent", index)
	}

	subject, _ := body["subject"].(string)
	if !strings.Contains(subject, expected) {
		return fmt.Errorf("expected email %d subject to contain %q, got %q", index, expected, subject)
	}
	return nil
}
