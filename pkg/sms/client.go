package sms

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
	MessageID string
	Code      string
	Message   string
	RequestID string
	Provider  string
	Template  string
}

// Client sends templated SMS messages through a provider.
type Client interface {
	// SendSingle delivers one message. templateParam is the JSON-encoded
	// template variables.
	SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) (*SendResponse, error)
}

var (
	smsClient Client
	smsOnce   sync.Once
	smsErr    error
)

func Init() error {
	smsOnce.Do(func() {
		cfg := config.Cfg

		switch cfg.SMSProvider {
		case "aliyun":
			smsClient, smsErr = NewAliyunClient()
		case "mock":
			smsClient = NewMockClient()
		default:
			smsErr = fmt.Errorf("unsupported SMS provider: %s", cfg.SMSProvider)
		}

		if smsErr != nil {
			logger.Logger.Error("Failed to initialize SMS client", zap.Error(smsErr))
			return
		}

		logger.Logger.Info("SMS client initialized",
			zap.String("provider", cfg.SMSProvider),
		)
	})

	return smsErr
}

func GetClient() Client {
	if smsClient == nil {
		panic("SMS client not initialized, call sms.Init() first")
	}
	return smsClient
}
