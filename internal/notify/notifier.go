// internal/notify/notifier.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	"freeflow-backend/internal/common/config"
	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/models"
)

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

var ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Receipt records the outcome of a notification attempt.
type Receipt struct {
	NotificationID string `json:"notification_id"`
	Status         string `json:"status"`
	SentAt         string `json:"sent_at"`
}

// Notifier informs the routed business about a new order over email and,
// for phone-in orders, SMS. Delivery is best effort: a failed send is
// logged and reported in the receipt, never surfaced to the caller as an
// error.
type Notifier struct {
	config    *config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewNotifier(ctx context.Context, cfg *config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
	}, nil
}

// NewNotifierWithClients wires explicit SES/SNS implementations, used by tests.
func NewNotifierWithClients(cfg *config.NotificationConfig, log logger.Logger, sesClient SESService, snsClient SNSService) *Notifier {
	return &Notifier{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// OrderRouted notifies the business chosen for an order. The business
// contact details come from the caller since the routing result carries
// only the business ID.
func (n *Notifier) OrderRouted(ctx context.Context, business *models.Business, order *models.Order, result *models.RoutingResult) *Receipt {
	sentAt := time.Now().UTC().Format(time.RFC3339)
	notificationID := uuid.New().String()

	data := map[string]interface{}{
		"businessName": business.Name,
		"itemCount":    len(order.Items),
		"orderType":    order.OrderType,
		"reason":       string(result.Reason),
	}

	subject := renderTemplate("New order for {{businessName}}", data)
	body := renderTemplate(
		"You have a new {{orderType}} order with {{itemCount}} item(s). Routing: {{reason}}.", data)

	emailSent := false
	smsSent := false

	if n.config.Email.Enabled && business.Email != "" {
		if err := n.sendEmail(ctx, business.Email, subject, body); err != nil {
			n.logger.Error("email send failed", map[string]interface{}{
				"error":      err,
				"businessId": business.ID,
			})
			return &Receipt{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
		}
		emailSent = true
	}

	if n.config.SMS.Enabled && business.Phone != "" && order.OrderType == models.OrderTypePhone {
		if err := n.sendSMS(ctx, business.Phone, body); err != nil {
			n.logger.Error("SMS send failed", map[string]interface{}{
				"error":      err,
				"businessId": business.ID,
			})
			return &Receipt{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}
		}
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	return &Receipt{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.Email.FromEmail),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
	}
	return nil
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationSendFailed, err)
	}
	return nil
}

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remove any remaining placeholders (missing values)
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
