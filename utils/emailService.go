package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"lingo/config"
	"lingo/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "Lingo"

// SendEmail delivers an HTML email through SendGrid when SENDGRID_API_KEY is set and
// through SMTP otherwise.
func SendEmail(to []string, subject string, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("send email: no recipients")
	}
	if config.AppConfig == nil || config.AppConfig.EmailSender == "" {
		logger.Log.Warn("email sender not configured, skipping email", "subject", subject)
		return nil
	}

	var err error
	if config.AppConfig.SendgridAPIKey != "" {
		err = sendWithSendgrid(to, subject, htmlBody)
	} else {
		err = sendWithSMTP(to, subject, htmlBody)
	}
	if err != nil {
		logger.Log.Error("send email", "to", to, "subject", subject, "error", err)
		return err
	}
	logger.Log.Debug("email sent", "to", to, "subject", subject)
	return nil
}

func sendWithSMTP(to []string, subject, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", senderName, from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)
	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

func sendWithSendgrid(to []string, subject, htmlBody string) error {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(senderName, config.AppConfig.EmailSender))
	m.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/html", htmlBody))

	resp, err := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey).Send(m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// getEmailTemplate wraps body in the common layout. title is escaped; body is trusted
// HTML built by the triggers below.
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B4D3E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B1B1B; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #EAF5EF; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LINGO</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; Lingo. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

// --- Triggers ---

func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Lingo"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your account has been created. Browse the catalogue and start your first lesson today.</p>
	`, html.EscapeString(name))

	go SendEmail([]string{email}, subject, getEmailTemplate("Welcome Onboard!", body))
}

func SendVersionPublishedEmail(email, name, courseTitle string, version int) {
	subject := fmt.Sprintf("Published: %s (version %d)", courseTitle, version)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Version <strong>%d</strong> of <strong>%s</strong> is now public and has been sent for review.</p>
	`, html.EscapeString(name), version, html.EscapeString(courseTitle))

	go SendEmail([]string{email}, subject, getEmailTemplate("Version Published", body))
}

func SendCourseApprovedEmail(email, name, courseTitle string) {
	subject := "Course Approved: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your course <strong>%s</strong> has been approved by our reviewers.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle))

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Approved", body))
}

func SendCourseRejectedEmail(email, name, courseTitle, reason string) {
	subject := "Course Rejected: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your course <strong>%s</strong> was not approved.</p>
		<div class="info-box"><strong>Reason:</strong> %s</div>
		<p>Create a new draft, address the feedback and publish again.</p>
	`, html.EscapeString(name), html.EscapeString(courseTitle), html.EscapeString(reason))

	go SendEmail([]string{email}, subject, getEmailTemplate("Course Rejected", body))
}

func SendEnrollmentEmail(email, name, courseTitle string, pricePaid float64) {
	subject := "Enrollment Confirmed: " + courseTitle
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box"><strong>Amount paid:</strong> %.2f</div>
	`, html.EscapeString(name), html.EscapeString(courseTitle), pricePaid)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Confirmed", body))
}

func SendWalletDepositEmail(email, name string, amount float64) {
	subject := "Wallet Deposit Successful"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your deposit has been credited to your wallet.</p>
		<div class="info-box"><strong>Amount:</strong> %.2f</div>
	`, html.EscapeString(name), amount)

	go SendEmail([]string{email}, subject, getEmailTemplate("Deposit Received", body))
}
