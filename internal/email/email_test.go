package email

import (
	"errors"
	"strings"
	"testing"

	"recoverydesk/internal/config"
)

func enabledConfig() *config.Config {
	return &config.Config{
		BaseURL:                    "https://desk.example.com",
		SMTPEnabled:                true,
		SMTPHost:                   "smtp.example.com",
		SMTPPort:                   587,
		SMTPFrom:                   "desk@example.com",
		SMTPFromName:               "Recovery Desk",
		EmailNotifyOnLaunchFailure: true,
	}
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *config.Config
		wantEnabled bool
	}{
		{"enabled when SMTP configured", enabledConfig(), true},
		{"disabled with empty config", &config.Config{}, false},
		{"disabled without host", &config.Config{SMTPEnabled: true, SMTPFrom: "desk@example.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.cfg)
			if svc.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", svc.IsEnabled(), tt.wantEnabled)
			}
		})
	}
}

func TestService_Send_Disabled(t *testing.T) {
	svc := NewService(&config.Config{})
	svc.send = func([]string, string) error {
		t.Fatal("send called on disabled service")
		return nil
	}

	if err := svc.Send([]string{"ops@example.com"}, "Test", "<p>HTML</p>", "Text"); err != nil {
		t.Errorf("Send() with disabled service should return nil, got %v", err)
	}
}

func TestService_Send_NoRecipients(t *testing.T) {
	svc := NewService(enabledConfig())
	svc.send = func([]string, string) error {
		t.Fatal("send called without recipients")
		return nil
	}

	if err := svc.Send(nil, "Test", "<p>HTML</p>", "Text"); err != nil {
		t.Errorf("Send() with nil recipients should return nil, got %v", err)
	}
}

func TestService_Send(t *testing.T) {
	svc := NewService(enabledConfig())

	var gotTo []string
	var gotMsg string
	svc.send = func(to []string, msg string) error {
		gotTo, gotMsg = to, msg
		return nil
	}

	to := []string{"a@example.com", "b@example.com"}
	if err := svc.Send(to, "Hello", "<p>hi</p>", "hi"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(gotTo) != 2 {
		t.Errorf("recipients = %v, want %v", gotTo, to)
	}
	if !strings.Contains(gotMsg, "To: a@example.com, b@example.com\r\n") {
		t.Errorf("message missing To header:\n%s", gotMsg)
	}
}

func TestService_Send_PropagatesError(t *testing.T) {
	svc := NewService(enabledConfig())
	svc.send = func([]string, string) error { return errors.New("connection refused") }

	if err := svc.Send([]string{"a@example.com"}, "Hello", "", "hi"); err == nil {
		t.Error("Send() error = nil, want transport error")
	}
}

func TestService_BuildMessage(t *testing.T) {
	svc := NewService(enabledConfig())

	tests := []struct {
		name     string
		htmlBody string
		textBody string
		wantHTML bool
		wantText bool
	}{
		{"both parts", "<p>HTML content</p>", "Text content", true, true},
		{"HTML only", "<p>HTML content</p>", "", true, false},
		{"text only", "", "Text content", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := svc.buildMessage([]string{"a@example.com"}, "Subject", tt.htmlBody, tt.textBody)

			if got := strings.Contains(msg, "Content-Type: text/html"); got != tt.wantHTML {
				t.Errorf("html part present = %v, want %v", got, tt.wantHTML)
			}
			if got := strings.Contains(msg, "Content-Type: text/plain"); got != tt.wantText {
				t.Errorf("text part present = %v, want %v", got, tt.wantText)
			}
			if !strings.HasSuffix(msg, "--"+mimeBoundary+"--\r\n") {
				t.Error("message does not end with closing boundary")
			}
			if !strings.Contains(msg, "MIME-Version: 1.0\r\n") {
				t.Error("message missing MIME-Version header")
			}
		})
	}
}

func TestService_FromHeader(t *testing.T) {
	cfg := enabledConfig()
	svc := NewService(cfg)
	if got := svc.fromHeader(); got != "Recovery Desk <desk@example.com>" {
		t.Errorf("fromHeader() = %q", got)
	}

	cfg.SMTPFromName = ""
	if got := svc.fromHeader(); got != "desk@example.com" {
		t.Errorf("fromHeader() without name = %q", got)
	}
}

func TestService_SendAsync_Disabled(t *testing.T) {
	svc := NewService(&config.Config{})
	svc.send = func([]string, string) error {
		t.Error("send called on disabled service")
		return nil
	}
	svc.SendAsync([]string{"a@example.com"}, "Test", "", "Text")
}

func TestService_BuildMessage_HeaderInjection(t *testing.T) {
	svc := NewService(enabledConfig())

	tests := []struct {
		name    string
		to      []string
		subject string
	}{
		{"CRLF in subject", []string{"ops@example.com"}, "Broadcast failed: Weekly\r\nBcc: someone@example.com"},
		{"bare LF in subject", []string{"ops@example.com"}, "Weekly\nBcc: someone@example.com"},
		{"CRLF in recipient", []string{"ops@example.com\r\nBcc: someone@example.com"}, "Broadcast failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := svc.buildMessage(tt.to, tt.subject, "", "body")
			headers, _, _ := strings.Cut(msg, "\r\n\r\n")

			for _, line := range strings.Split(headers, "\r\n") {
				if strings.HasPrefix(line, "Bcc:") {
					t.Fatalf("injected Bcc header in:\n%s", headers)
				}
				if strings.ContainsAny(line, "\r\n") {
					t.Errorf("header line contains a bare line break: %q", line)
				}
			}
		})
	}
}

func TestService_BuildMessage_EncodesNonASCIISubject(t *testing.T) {
	svc := NewService(enabledConfig())

	msg := svc.buildMessage([]string{"ops@example.com"}, "दिवाली failed", "", "body")
	if !strings.Contains(msg, "Subject: =?utf-8?q?") {
		t.Errorf("subject not Q-encoded:\n%s", msg)
	}

	msg = svc.buildMessage([]string{"ops@example.com"}, "[Recovery Desk] Broadcast failed: weekly", "", "body")
	if !strings.Contains(msg, "Subject: [Recovery Desk] Broadcast failed: weekly\r\n") {
		t.Errorf("plain ASCII subject was altered:\n%s", msg)
	}
}
