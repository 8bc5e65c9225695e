package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSNotifier enqueues messages for a downstream delivery worker instead of
// sending them inline.
type SQSNotifier struct {
	client      *sqs.Client
	queueURL    string
	confirmBase string
}

// NewSQSNotifier constructs an SQS-backed notifier.
func NewSQSNotifier(ctx context.Context, queueURL, region, confirmBase string) (*SQSNotifier, error) {
	if strings.TrimSpace(queueURL) == "" {
		return nil, fmt.Errorf("NOTIFY_SQS_QUEUE_URL is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSNotifier{
		client:      sqs.NewFromConfig(cfg),
		queueURL:    queueURL,
		confirmBase: confirmBase,
	}, nil
}

func (n *SQSNotifier) SendConfirmation(ctx context.Context, recipient, kind, token string) error {
	subject, body := renderConfirmation(n.confirmBase, kind, token)
	return n.enqueue(ctx, newMessage("confirmation", recipient, subject, body))
}

func (n *SQSNotifier) SendApplicationUpdate(ctx context.Context, recipient, jobTitle, status, detail string) error {
	subject, body := renderApplicationUpdate(jobTitle, status, detail)
	return n.enqueue(ctx, newMessage("application_update", recipient, subject, body))
}

func (n *SQSNotifier) enqueue(ctx context.Context, msg Message) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode notify message: %w", err)
	}

	_, err = n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

var _ Notifier = (*SQSNotifier)(nil)
