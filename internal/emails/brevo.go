package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender `json:"sender"`
	To          []BrevoTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender sends transactional emails (welcome, password reset). Nil = no-op.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, fullname string) error
	SendPasswordReset(ctx context.Context, toEmail, resetLink string) error
}

// BrevoClient sends emails via the Brevo API. With an empty API key every
// send is a silent no-op, which keeps local development mail-free.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "nao-responda@credops.com.br"
}

// send sends one email via Brevo API.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "CredOps"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome sends the welcome email after account creation.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, fullname string) error {
	if c.APIKey == "" {
		return nil
	}
	if fullname == "" {
		fullname = "colega"
	}
	content := welcomeContent(fullname)
	return c.send(ctx, toEmail, "Bem-vindo ao CredOps", EmailLayout(content))
}

// SendPasswordReset sends the reset link email.
func (c *BrevoClient) SendPasswordReset(ctx context.Context, toEmail, resetLink string) error {
	if c.APIKey == "" {
		return nil
	}
	content := passwordResetContent(resetLink)
	return c.send(ctx, toEmail, "Redefinição de senha", EmailLayout(content))
}

func welcomeContent(fullname string) string {
	return fmt.Sprintf(`
    <h1>Bem-vindo, %s!</h1>
    <p>Sua conta no <strong>CredOps</strong> foi criada com sucesso. A partir de agora você pode cadastrar operações de crédito, acompanhar o andamento das análises e gerenciar seus parceiros em um só lugar.</p>
    <p>Se você não criou esta conta, entre em contato com o suporte imediatamente.</p>
    <p>— Equipe CredOps</p>
`, EscapeHTML(fullname))
}

func passwordResetContent(resetLink string) string {
	return fmt.Sprintf(`
    <h1>Redefinição de senha</h1>
    <p>Recebemos uma solicitação para redefinir a senha da sua conta <strong>CredOps</strong>. Clique no botão abaixo para escolher uma nova senha:</p>
    <center>
      <a href="%s" class="credops-button">Redefinir senha</a>
    </center>
    <p style="margin-top:20px;font-size:14px;color:#666;">
      O link expira em 1 hora. Se você não solicitou a redefinição, ignore este email com segurança.
    </p>
    <p>— Equipe CredOps</p>
`, resetLink)
}
