package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"

	"casamento/internal/models"
)

// sesSender is the part of the SES client used to deliver mail
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends RSVP confirmation emails via Amazon SES
type EmailService struct {
	client     sesSender
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	log        zerolog.Logger
}

// NewEmailService creates a new email service. An empty fromEmail yields a disabled
// service that accepts every send and delivers nothing.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, log zerolog.Logger) (*EmailService, error) {
	if fromEmail == "" {
		log.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{log: log}, nil
	}

	log.Debug().
		Str("region", awsRegion).
		Str("from", fromEmail).
		Str("base_url", appBaseURL).
		Msg("initializing email service with AWS SES")

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		enabled:    true,
		log:        log,
	}, nil
}

// IsEnabled reports whether emails are actually sent
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRSVPConfirmation tells a guest which answer was recorded for an event.
// Guests without an email address are skipped.
func (s *EmailService) SendRSVPConfirmation(ctx context.Context, guest *models.Guest, event models.Event) error {
	if guest.Email == "" {
		return nil
	}
	if !s.enabled {
		s.log.Debug().Str("to", guest.Email).Msg("skipping RSVP confirmation (service disabled)")
		return nil
	}

	subject, htmlBody, textBody := rsvpConfirmationBodies(guest, event, s.appBaseURL)
	return s.sendEmail(ctx, guest.Email, subject, htmlBody, textBody)
}

func rsvpConfirmationBodies(guest *models.Guest, event models.Event, baseURL string) (subject, htmlBody, textBody string) {
	status := guest.Status(event)
	subject = fmt.Sprintf("%s: %s", event.Label(), status.Label())

	message := "Recebemos sua resposta."
	switch status {
	case models.RSVPConfirmed:
		message = "Que alegria! Sua presença está confirmada."
	case models.RSVPDeclined:
		message = "Sentiremos sua falta. Obrigado por nos avisar."
	}

	htmlBody = fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Georgia, serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #8a9a5b; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #faf7f2; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">
			<p>Olá %s,</p>
			<p>%s</p>
			<p>Status: <strong>%s</strong></p>
			<p>Você pode alterar seus dados em <a href="%s/rsvp">%s/rsvp</a> com o código <strong>%s</strong>.</p>
		</div>
		<div class="footer"><p>Este é um e-mail automático. Por favor, não responda.</p></div>
	</div>
</body>
</html>
`, html.EscapeString(event.Label()), html.EscapeString(guest.Name), message,
		status.Label(), baseURL, baseURL, html.EscapeString(guest.InvitationCode))

	textBody = fmt.Sprintf(`Olá %s,

%s

%s: %s

Você pode alterar seus dados em %s/rsvp com o código %s.

---
Este é um e-mail automático. Por favor, não responda.
`, guest.Name, message, event.Label(), status.Label(), baseURL, guest.InvitationCode)

	return subject, htmlBody, textBody
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	ev := s.log.Info().Str("to", toEmail).Str("subject", subject)
	if result != nil && result.MessageId != nil {
		ev = ev.Str("message_id", *result.MessageId)
	}
	ev.Msg("email sent")
	return nil
}
