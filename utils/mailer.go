package utils

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/KayaErtug/bolt-app/config"
)

// SendMail delivers a single HTML email through the configured SMTP server.
// Supports STARTTLS (port 587) and implicit TLS (port 465).
func SendMail(to, subject, htmlBody string) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" {
		return fmt.Errorf("smtp not configured")
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	fromHeader := from
	if cfg.SMTPFromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", cfg.SMTPFromName, from)
	}

	headers := map[string]string{
		"From":         fromHeader,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}
	var sb strings.Builder
	for k, v := range headers {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)

	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	if cfg.SMTPPort == 465 {
		return sendMailImplicitTLS(addr, cfg.SMTPHost, auth, from, to, []byte(sb.String()))
	}

	if cfg.SMTPTLS {
		return sendMailStartTLS(addr, cfg.SMTPHost, auth, from, to, []byte(sb.String()))
	}
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(sb.String()))
}

func sendMailStartTLS(addr, host string, auth smtp.Auth, from, to string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if err := c.Auth(auth); err != nil {
		return err
	}
	return writeMessage(c, from, to, msg)
}

func sendMailImplicitTLS(addr, host string, auth smtp.Auth, from, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()
	if err := c.Auth(auth); err != nil {
		return err
	}
	return writeMessage(c, from, to, msg)
}

func writeMessage(c *smtp.Client, from, to string, msg []byte) error {
	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// SendVerificationCode emails a short numeric code used for registration.
func SendVerificationCode(to, code string) error {
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
<h2>Verify your email</h2>
<p>Your verification code is:</p>
<p style="font-size:28px;letter-spacing:6px;font-weight:bold">%s</p>
<p>The code expires in 10 minutes. If you did not request it, ignore this email.</p>
</div>`, code)
	return SendMail(to, "Your verification code", body)
}

// SendPreorderConfirmation emails the buyer a confirmation of an NFT pre-order.
func SendPreorderConfirmation(to, nftName, imageURL string, quantity int) error {
	imgTag := ""
	if imageURL != "" {
		imgTag = fmt.Sprintf(`<img src="%s" alt="%s" style="max-width:100%%;border-radius:12px"/>`, imageURL, nftName)
	}
	body := fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:480px;margin:0 auto">
<h2>Pre-order received</h2>
%s
<p>Thank you for pre-ordering <strong>%s</strong> (quantity: %d).</p>
<p>We will contact you at this address when minting opens. No payment has been taken yet.</p>
</div>`, imgTag, nftName, quantity)
	return SendMail(to, fmt.Sprintf("Pre-order confirmed: %s", nftName), body)
}
