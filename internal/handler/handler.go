// Package handler exposes the HTTP endpoints. Services are injected once at
// startup through Init and shared by the package-level handler functions.
package handler

import (
	"IAmFine/internal/schedule"
	"IAmFine/internal/service"
)

var (
	checkinService      *service.CheckinService
	contactService      *service.ContactService
	notificationService *service.NotificationService
	sweeper             *schedule.Sweeper
)

func Init(checkin *service.CheckinService, contact *service.ContactService, notification *service.NotificationService, sw *schedule.Sweeper) {
	checkinService = checkin
	contactService = contact
	notificationService = notification
	sweeper = sw
}
