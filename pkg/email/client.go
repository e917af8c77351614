package email

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"IAmFine/config"
	"IAmFine/pkg/logger"
)

// SendResponse carries the provider's reply for one message.
type SendResponse struct {
	EnvID     string
	RequestID string
	Provider  string
}

// Client sends transactional email through a provider.
type Client interface {
	SendSingle(ctx context.Context, to, subject, htmlBody string) (*SendResponse, error)
}

var (
	emailClient Client
	emailOnce   sync.Once
	emailErr    error
)

func Init() error {
	emailOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.EmailProvider {
		case "aliyun":
			emailClient, emailErr = NewAliyunClient(cfg.EmailAccountName, cfg.EmailFromAlias)
		case "mock":
			emailClient = NewMockClient()
		default:
			emailErr = fmt.Errorf("unsupported email provider: %s", cfg.EmailProvider)
		}

		if emailErr != nil {
			logger.Logger.Error("Failed to initialize email client", zap.Error(emailErr))
			return
		}

		logger.Logger.Info("Email client initialized",
			zap.String("provider", cfg.EmailProvider),
		)
	})

	return emailErr
}

func GetClient() Client {
	if emailClient == nil {
		panic("email client not initialized, call email.Init() first")
	}
	return emailClient
}
