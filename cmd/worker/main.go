package main

// The worker runs the background halves of the system: sweeping expired
// pending actions and, when a notification queue is configured, draining
// it into SMTP delivery.

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"jobpilot-backend/internal/bootstrap"
	"jobpilot-backend/internal/notify"
	"jobpilot-backend/internal/pending"
	"jobpilot-backend/internal/shared/config"
	"jobpilot-backend/internal/shared/metrics"
	"jobpilot-backend/internal/shared/telemetry"
)

const (
	defaultReaperIntervalSec  = 900
	defaultVisibilitySeconds  = 120
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	var wg sync.WaitGroup

	reaperInterval := time.Duration(envInt("REAPER_INTERVAL_SECONDS", defaultReaperIntervalSec)) * time.Second
	reaper := pending.NewReaper(app.PendingRepo, reaperInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("pending action reaper started interval=%s", reaperInterval)
		reaper.Run(ctx)
	}()

	if queueURL := strings.TrimSpace(cfg.NotifyQueueURL); queueURL != "" {
		deliverer, err := smtpDeliverer(cfg)
		if err != nil {
			log.Fatalf("notification delivery: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			drainNotifications(ctx, cfg, queueURL, deliverer)
		}()
	}

	<-ctx.Done()
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second
	log.Printf("shutdown requested, waiting up to %s", shutdownTimeout)

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with work in flight")
	}
}

func smtpDeliverer(cfg config.Config) (*notify.SMTPNotifier, error) {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		port = 587
	}
	return notify.NewSMTPNotifier(cfg.SMTPHost, port, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.ConfirmationBase)
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// drainNotifications long-polls the notification queue and delivers each
// message over SMTP. Undeliverable payloads are dropped after logging;
// transient failures leave the message for redelivery.
func drainNotifications(ctx context.Context, cfg config.Config, queueURL string, deliverer *notify.SMTPNotifier) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Printf("load aws config: %v", err)
		return
	}
	var client sqsAPI = sqs.NewFromConfig(awsCfg)

	visibility := envInt("NOTIFY_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	sem := make(chan struct{}, max(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("notification worker started queue=%s concurrency=%d", queueURL, concurrency)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibility),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleNotification(ctx, client, queueURL, deliverer, m)
			}(msg)
		}
	}
	wg.Wait()
}

func handleNotification(ctx context.Context, client sqsAPI, queueURL string, deliverer *notify.SMTPNotifier, m sqstypes.Message) {
	body := aws.ToString(m.Body)

	msg, err := notify.DecodeMessage([]byte(body))
	if err != nil || msg.Recipient == "" {
		telemetry.Error("worker.notify.decode_failed", map[string]any{
			"message_id": aws.ToString(m.MessageId),
			"body_len":   len(body),
		})
		deleteMessage(ctx, client, queueURL, m)
		return
	}

	if err := deliverer.Deliver(ctx, msg); err != nil {
		// Leave the message in the queue for redelivery.
		telemetry.Error("worker.notify.delivery_failed", map[string]any{
			"message_id": aws.ToString(m.MessageId),
			"type":       msg.Type,
			"error":      err.Error(),
		})
		return
	}

	metrics.IncNotificationDelivered()
	telemetry.Info("worker.notify.delivered", map[string]any{
		"message_id": aws.ToString(m.MessageId),
		"type":       msg.Type,
	})
	deleteMessage(ctx, client, queueURL, m)
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, m sqstypes.Message) {
	_, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		log.Printf("delete message: %v", err)
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
