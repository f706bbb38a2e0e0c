package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-rota/internal/bootstrap"
	"go-rota/internal/config"
	"go-rota/internal/events"
	"go-rota/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const auditConsumerGroup = "go-rota-audit"

// RunConsumer feeds override and payroll finalisation events into the audit log.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupID: auditConsumerGroup,
		GroupTopics: []string{
			events.ShiftOverrideApprovedTopic,
			events.PayrollRunFinalizedTopic,
		},
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeAuditEvents(ctx, reader, bootstrap.NewStdoutAuditLogger(), logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
