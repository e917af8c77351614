package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"IAmFine/internal/model"
	"IAmFine/internal/service"
	pkgerrors "IAmFine/pkg/errors"
)

type staticUserStore struct {
	users []model.User
}

func (s *staticUserStore) GetByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	for i := range s.users {
		if s.users[i].PublicID == publicID {
			return &s.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *staticUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *staticUserStore) ListActive(ctx context.Context) ([]model.User, error) {
	return s.users, nil
}

func (s *staticUserStore) ListReminderEnabled(ctx context.Context) ([]model.User, error) {
	return nil, nil
}

func (s *staticUserStore) UpdateLastCheckin(ctx context.Context, userID int64, at time.Time) error {
	return nil
}

type fakeAlerter struct {
	mu      sync.Mutex
	calls   []int64
	outcome *service.EscalationOutcome
	err     error

	panicOnUser int64
	block       chan struct{}
}

func (f *fakeAlerter) SendCheckinAlert(ctx context.Context, userDBID int64, daysMissed int) (*service.EscalationOutcome, error) {
	if f.block != nil {
		<-f.block
	}
	if userDBID == f.panicOnUser && f.panicOnUser != 0 {
		panic("bad row")
	}
	f.mu.Lock()
	f.calls = append(f.calls, userDBID)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.outcome != nil {
		return f.outcome, nil
	}
	return &service.EscalationOutcome{Notified: true, Channel: model.NotificationChannelSMS}, nil
}

func (f *fakeAlerter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func staleUser(id int64, lastCheckin time.Time) model.User {
	u := model.User{
		PublicID: 1000 + id,
		Status:   model.UserStatusActive,
	}
	u.ID = id
	u.CreatedAt = lastCheckin.AddDate(0, 0, -30)
	t := lastCheckin
	u.LastCheckinAt = &t
	return u
}

func newSweeperForTest(users *staticUserStore, alerter Alerter, now time.Time) *Sweeper {
	s := NewSweeper(users, alerter, time.UTC, 3, 4, time.Minute, zap.NewNop())
	s.now = func() time.Time { return now }
	s.takeLease = func(ctx context.Context) (bool, error) { return true, nil }
	s.dropLease = func(ctx context.Context) {}
	return s
}

func TestSweepStalenessBoundary(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	users := &staticUserStore{users: []model.User{
		// exactly at the threshold, alerted
		staleUser(1, now.AddDate(0, 0, -3)),
		// one day short, skipped without an alert attempt
		staleUser(2, now.AddDate(0, 0, -2)),
	}}
	alerter := &fakeAlerter{}

	summary, err := newSweeperForTest(users, alerter, now).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 1, summary.Notified)
	assert.Equal(t, 1, summary.Skipped)
	require.Equal(t, 1, alerter.callCount())
	assert.Equal(t, int64(1), alerter.calls[0])

	// every scanned user lands in exactly one bucket
	assert.Equal(t, summary.Scanned, summary.Notified+summary.Skipped)
}

func TestSweepNeverCheckedInUsesRegistrationDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	fresh := model.User{PublicID: 1001, Status: model.UserStatusActive}
	fresh.ID = 1
	fresh.CreatedAt = now.AddDate(0, 0, -1)

	dormant := model.User{PublicID: 1002, Status: model.UserStatusActive}
	dormant.ID = 2
	dormant.CreatedAt = now.AddDate(0, 0, -10)

	users := &staticUserStore{users: []model.User{fresh, dormant}}
	alerter := &fakeAlerter{}

	summary, err := newSweeperForTest(users, alerter, now).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Notified)
	assert.Equal(t, 1, summary.Skipped)
	require.Equal(t, 1, alerter.callCount())
	assert.Equal(t, int64(2), alerter.calls[0])
}

func TestSweepCountsUnnotifiedStaleUsersAsSkipped(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	users := &staticUserStore{users: []model.User{
		staleUser(1, now.AddDate(0, 0, -5)),
	}}
	alerter := &fakeAlerter{
		outcome: &service.EscalationOutcome{SkipReason: service.SkipReasonNoContact},
	}

	summary, err := newSweeperForTest(users, alerter, now).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Notified)
	assert.Equal(t, 1, summary.Skipped)
}

func TestSweepAlerterErrorIsAbsorbed(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	users := &staticUserStore{users: []model.User{
		staleUser(1, now.AddDate(0, 0, -5)),
		staleUser(2, now.AddDate(0, 0, -5)),
	}}
	alerter := &fakeAlerter{err: context.DeadlineExceeded}

	summary, err := newSweeperForTest(users, alerter, now).Run(context.Background())
	require.NoError(t, err)

	// the batch still finishes, failures show up as skipped
	assert.Equal(t, 2, summary.Scanned)
	assert.Equal(t, 2, summary.Skipped)
}

func TestSweepPanicOnOneUserDoesNotStopTheBatch(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	users := &staticUserStore{users: []model.User{
		staleUser(1, now.AddDate(0, 0, -5)),
		staleUser(2, now.AddDate(0, 0, -5)),
		staleUser(3, now.AddDate(0, 0, -5)),
	}}
	alerter := &fakeAlerter{panicOnUser: 2}

	summary, err := newSweeperForTest(users, alerter, now).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 2, summary.Notified)
	assert.Equal(t, 1, summary.Skipped)
}

func TestSweepRejectsConcurrentRun(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	users := &staticUserStore{users: []model.User{
		staleUser(1, now.AddDate(0, 0, -5)),
	}}
	alerter := &fakeAlerter{block: make(chan struct{})}
	sweeper := newSweeperForTest(users, alerter, now)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sweeper.Run(context.Background())
	}()

	// wait for the first run to hold the running flag
	require.Eventually(t, func() bool {
		return sweeper.running.Load()
	}, time.Second, time.Millisecond)

	_, err := sweeper.Run(context.Background())
	assert.ErrorIs(t, err, pkgerrors.SweepAlreadyRunning)

	close(alerter.block)
	<-done
}

func TestSweepLeaseHeldElsewhere(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	users := &staticUserStore{users: []model.User{
		staleUser(1, now.AddDate(0, 0, -5)),
	}}
	alerter := &fakeAlerter{}
	sweeper := newSweeperForTest(users, alerter, now)
	sweeper.takeLease = func(ctx context.Context) (bool, error) { return false, nil }

	_, err := sweeper.Run(context.Background())
	assert.ErrorIs(t, err, pkgerrors.SweepAlreadyRunning)
	assert.Equal(t, 0, alerter.callCount())
}
