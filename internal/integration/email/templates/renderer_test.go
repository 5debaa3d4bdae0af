package templates

import (
	"strings"
	"testing"
)

func TestRenderer_CheckReminder(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	html, text, err := renderer.Render(TemplateCheckReminder, CheckReminderData{
		Title:        "Check Reminder",
		Message:      "Rent <March> is due tomorrow",
		Priority:     "high",
		DashboardURL: "https://app.example.com/checks/abc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(html, "Rent &lt;March&gt; is due tomorrow") {
		t.Error("expected HTML body to contain the escaped message")
	}
	if !strings.Contains(html, "https://app.example.com/checks/abc") {
		t.Error("expected HTML body to link to the check")
	}
	if !strings.Contains(text, "Rent <March> is due tomorrow") {
		t.Error("expected text body to contain the raw message")
	}
	if !strings.Contains(text, "Priority: high") {
		t.Error("expected text body to contain the priority")
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	if _, _, err := renderer.Render("missing", nil); err == nil {
		t.Error("expected unknown template to fail")
	}
}
