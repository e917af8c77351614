package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"IAmFine/internal/model"
	pkgerrors "IAmFine/pkg/errors"
)

func newContactServiceForTest(users *fakeUserStore, contacts *fakeContactStore) *ContactService {
	return NewContactService(users, contacts, 3, zap.NewNop())
}

func TestCreateContact(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	contacts := &fakeContactStore{}
	svc := newContactServiceForTest(users, contacts)

	item, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
		Name:     "Alice",
		Phone:    "13900139000",
		Priority: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", item.Name)
	assert.Equal(t, 1, item.Priority)
	// responses carry the masked phone only
	assert.NotEqual(t, "13900139000", item.PhoneMasked)
	assert.Contains(t, item.PhoneMasked, "****")
}

func TestCreateContactLimitReached(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	contacts := &fakeContactStore{}
	svc := newContactServiceForTest(users, contacts)

	for priority := 1; priority <= 3; priority++ {
		_, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
			Name:     "C",
			Phone:    "13900139000",
			Priority: priority,
		})
		require.NoError(t, err)
	}

	_, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
		Name:     "D",
		Phone:    "13900139001",
		Priority: 1,
	})
	assert.ErrorIs(t, err, pkgerrors.ContactLimitReached)
}

func TestCreateContactPriorityConflict(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	contacts := &fakeContactStore{}
	svc := newContactServiceForTest(users, contacts)

	_, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
		Name:     "Alice",
		Phone:    "13900139000",
		Priority: 2,
	})
	require.NoError(t, err)

	_, err = svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
		Name:     "Bob",
		Phone:    "13900139001",
		Priority: 2,
	})
	assert.ErrorIs(t, err, pkgerrors.ContactPriorityConflict)
}

func TestCreateContactPriorityOutOfRange(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	svc := newContactServiceForTest(users, &fakeContactStore{})

	for _, priority := range []int{0, -1, 4} {
		_, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
			Name:     "Alice",
			Phone:    "13900139000",
			Priority: priority,
		})
		assert.ErrorIs(t, err, pkgerrors.ContactPriorityConflict, "priority %d", priority)
	}
}

func TestListContactsOrderedByPriority(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	contacts := &fakeContactStore{}
	svc := newContactServiceForTest(users, contacts)

	for _, priority := range []int{3, 1, 2} {
		_, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
			Name:     "C",
			Phone:    "13900139000",
			Priority: priority,
		})
		require.NoError(t, err)
	}

	list, err := svc.ListContacts(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, 2, list[1].Priority)
	assert.Equal(t, 3, list[2].Priority)
}

func TestDeleteContact(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	contacts := &fakeContactStore{}
	svc := newContactServiceForTest(users, contacts)

	item, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
		Name:     "Alice",
		Phone:    "13900139000",
		Priority: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContact(context.Background(), "1001", item.ID))

	list, err := svc.ListContacts(context.Background(), "1001")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteContactNotFound(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001))
	svc := newContactServiceForTest(users, &fakeContactStore{})

	err := svc.DeleteContact(context.Background(), "1001", 42)
	assert.ErrorIs(t, err, pkgerrors.ContactNotFound)
}

func TestDeleteContactOtherUsersContact(t *testing.T) {
	users := newFakeUserStore(newTestUser(1, 1001), newTestUser(2, 1002))
	contacts := &fakeContactStore{}
	svc := newContactServiceForTest(users, contacts)

	item, err := svc.CreateContact(context.Background(), "1001", model.CreateContactRequest{
		Name:     "Alice",
		Phone:    "13900139000",
		Priority: 1,
	})
	require.NoError(t, err)

	// user 1002 cannot delete user 1001's contact
	err = svc.DeleteContact(context.Background(), "1002", item.ID)
	assert.ErrorIs(t, err, pkgerrors.ContactNotFound)
}
