package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-user-terms/config"
	"github.com/oksasatya/go-ddd-user-terms/pkg/helpers"
	"github.com/oksasatya/go-ddd-user-terms/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-user-terms/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	msgs, err := consumer.Deliveries(ctx)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	brand := mailtpl.Brand{AppName: cfg.AppName, CompanyName: cfg.CompanyName, SupportURL: cfg.SupportURL}
	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Error("delivery channel closed")
				return
			}
			sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			outcome, err := mailer.Deliver(sendCtx, mg, brand, msg.Body)
			cancel()

			entry := logger.WithFields(logrus.Fields{"delivery_tag": msg.DeliveryTag, "redelivered": msg.Redelivered})
			switch outcome {
			case mailer.Ack:
				entry.Debug("email sent")
				_ = msg.Ack(false)
			case mailer.Drop:
				entry.WithError(err).Warn("dropping email job")
				_ = msg.Nack(false, false)
			case mailer.Requeue:
				entry.WithError(err).Error("send failed, requeueing")
				_ = msg.Nack(false, true)
			}
		}
	}
}
