package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends guild announcement emails via Amazon SES. Announcements
// go to a configured mailbox (typically a mailing list), not to individual
// players; accounts are username-only.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	toEmail   string
	enabled   bool
}

// NewEmailService creates the email service. An empty fromEmail yields a
// disabled service whose sends are silent no-ops.
func NewEmailService(awsRegion, fromEmail, toEmail string) (*EmailService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("Email service disabled: sender or announcements address not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		toEmail:   toEmail,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the email service is enabled.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRankUpAnnouncement announces a player reaching a new rank.
func (s *EmailService) SendRankUpAnnouncement(ctx context.Context, username, rank string) error {
	subject := fmt.Sprintf("%s has reached Rank %s", username, rank)
	body := fmt.Sprintf("Hunter %s has advanced to Rank %s. The climb continues.", username, rank)
	return s.send(ctx, subject, body)
}

// SendSRankAnnouncement announces the rarest event: a hunter hitting Rank S.
func (s *EmailService) SendSRankAnnouncement(ctx context.Context, username string) error {
	subject := fmt.Sprintf("A new S-Rank hunter: %s", username)
	body := fmt.Sprintf("%s has reached Rank S, the highest rank there is. Only those who max out their journey get here.", username)
	return s.send(ctx, subject, body)
}

func (s *EmailService) send(ctx context.Context, subject, body string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): %s", subject)
		return nil
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
