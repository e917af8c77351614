package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"IAmFine/internal/model"
	"IAmFine/internal/repository"
	"IAmFine/pkg/email"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/pkg/metrics"
	"IAmFine/pkg/sms"
)

// Skip reasons reported when a stale user produced no alert.
const (
	SkipReasonNoContact      = "no_contact"
	SkipReasonChannelsFailed = "all_channels_failed"
)

// EscalationOutcome is the result of one alert escalation for one user.
type EscalationOutcome struct {
	Notified   bool
	Channel    model.NotificationChannel
	SkipReason string
}

// NotificationService alerts a user's primary contact when the monitor sweep
// finds them stale. SMS first, email as fallback; every attempt leaves exactly
// one notification_logs row, and a user without contacts leaves none.
type NotificationService struct {
	users    repository.UserStore
	contacts repository.ContactStore
	logs     repository.NotificationLogStore

	smsClient   sms.Client
	emailClient email.Client

	signName     string
	templateCode string
	sendTimeout  time.Duration
	logger       *zap.Logger

	now func() time.Time
}

func NewNotificationService(
	users repository.UserStore,
	contacts repository.ContactStore,
	logs repository.NotificationLogStore,
	smsClient sms.Client,
	emailClient email.Client,
	signName, templateCode string,
	sendTimeout time.Duration,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		users:        users,
		contacts:     contacts,
		logs:         logs,
		smsClient:    smsClient,
		emailClient:  emailClient,
		signName:     signName,
		templateCode: templateCode,
		sendTimeout:  sendTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// SendCheckinAlert escalates a missed check-in for the user with the given
// database ID. Returns an outcome, never a business error for channel
// failures: those are recorded in the log trail and the skip reason.
func (s *NotificationService) SendCheckinAlert(ctx context.Context, userDBID int64, daysMissed int) (*EscalationOutcome, error) {
	user, err := s.users.GetByID(ctx, userDBID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	contact, err := s.contacts.FindPrimary(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve primary contact: %w", err)
	}

	escalationID := uuid.NewString()

	if contact == nil {
		s.logger.Warn("User has no emergency contact, alert skipped",
			zap.String("escalation_id", escalationID),
			zap.Int64("user_id", user.PublicID),
			zap.Int("days_missed", daysMissed),
		)
		return &EscalationOutcome{SkipReason: SkipReasonNoContact}, nil
	}

	content := s.alertContent(user, daysMissed)

	if contact.Phone != "" {
		if s.attemptSMS(ctx, escalationID, user, contact, content, daysMissed) {
			return &EscalationOutcome{Notified: true, Channel: model.NotificationChannelSMS}, nil
		}
	}

	if contact.Email != "" {
		if s.attemptEmail(ctx, escalationID, user, contact, content) {
			return &EscalationOutcome{Notified: true, Channel: model.NotificationChannelEmail}, nil
		}
	}

	s.logger.Error("All alert channels failed",
		zap.String("escalation_id", escalationID),
		zap.Int64("user_id", user.PublicID),
		zap.Int64("contact_id", contact.ID),
	)

	return &EscalationOutcome{SkipReason: SkipReasonChannelsFailed}, nil
}

func (s *NotificationService) attemptSMS(ctx context.Context, escalationID string, user *model.User, contact *model.Contact, content string, daysMissed int) bool {
	param, _ := json.Marshal(map[string]string{
		"name": user.DisplayName(),
		"days": fmt.Sprintf("%d", daysMissed),
	})

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	start := s.now()
	_, sendErr := s.smsClient.SendSingle(sendCtx, contact.Phone, s.signName, s.templateCode, string(param))
	elapsed := time.Since(start)

	s.record(ctx, user, contact, model.NotificationChannelSMS, content, sendErr, elapsed)

	if sendErr != nil {
		s.logger.Warn("SMS alert failed, falling back to email",
			zap.String("escalation_id", escalationID),
			zap.Int64("user_id", user.PublicID),
			zap.Int64("contact_id", contact.ID),
			zap.Error(sendErr),
		)
		return false
	}

	s.logger.Info("Alert delivered via SMS",
		zap.String("escalation_id", escalationID),
		zap.Int64("user_id", user.PublicID),
		zap.Int64("contact_id", contact.ID),
	)
	return true
}

func (s *NotificationService) attemptEmail(ctx context.Context, escalationID string, user *model.User, contact *model.Contact, content string) bool {
	subject := fmt.Sprintf("Safety alert: %s has not checked in", user.DisplayName())
	body := fmt.Sprintf("<p>%s</p>", content)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	start := s.now()
	_, sendErr := s.emailClient.SendSingle(sendCtx, contact.Email, subject, body)
	elapsed := time.Since(start)

	s.record(ctx, user, contact, model.NotificationChannelEmail, content, sendErr, elapsed)

	if sendErr != nil {
		s.logger.Warn("Email alert failed",
			zap.String("escalation_id", escalationID),
			zap.Int64("user_id", user.PublicID),
			zap.Int64("contact_id", contact.ID),
			zap.Error(sendErr),
		)
		return false
	}

	s.logger.Info("Alert delivered via email",
		zap.String("escalation_id", escalationID),
		zap.Int64("user_id", user.PublicID),
		zap.Int64("contact_id", contact.ID),
	)
	return true
}

// record writes the audit row for one attempt. Persistence failures are
// logged and absorbed: the alert trail must never break the escalation.
func (s *NotificationService) record(ctx context.Context, user *model.User, contact *model.Contact, channel model.NotificationChannel, content string, sendErr error, elapsed time.Duration) {
	entry := &model.NotificationLog{
		UserID:    user.ID,
		ContactID: contact.ID,
		Channel:   channel,
		Status:    model.NotificationStatusSuccess,
		Content:   content,
		SentAt:    s.now(),
	}

	status := "success"
	if sendErr != nil {
		msg := sendErr.Error()
		entry.Status = model.NotificationStatusFailed
		entry.ErrorMessage = &msg
		status = "failed"
	}

	metrics.RecordNotification(ctx, string(channel), status, elapsed)

	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to persist notification log",
			zap.Int64("user_id", user.PublicID),
			zap.String("channel", string(channel)),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) alertContent(user *model.User, daysMissed int) string {
	return fmt.Sprintf("%s has not checked in for %d days. Please reach out and make sure they are okay.",
		user.DisplayName(), daysMissed)
}

// GetHistory returns the user's recent alert attempts, newest first.
func (s *NotificationService) GetHistory(ctx context.Context, userID string, limit int) ([]model.NotificationItem, error) {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	entries, err := s.logs.ListByUser(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification logs: %w", err)
	}

	items := make([]model.NotificationItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, model.NotificationItem{
			ID:           entry.ID,
			Channel:      string(entry.Channel),
			Status:       string(entry.Status),
			Content:      entry.Content,
			ErrorMessage: entry.ErrorMessage,
			SentAt:       entry.SentAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

func (s *NotificationService) GetStats(ctx context.Context, userID string) (*model.NotificationStats, error) {
	publicID, err := parsePublicID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	stats, err := s.logs.StatsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notification stats: %w", err)
	}
	return stats, nil
}
