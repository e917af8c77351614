package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"IAmFine/internal/middleware"
	"IAmFine/internal/model"
	pkgerrors "IAmFine/pkg/errors"
	"IAmFine/pkg/response"
	"IAmFine/utils"
)

// CreateContact adds an emergency contact.
// POST /v1/contacts
func CreateContact(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	var req model.CreateContactRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if !utils.ValidatePhone(req.Phone) {
		response.BindError(ctx, c, fmt.Errorf("invalid phone number"))
		return
	}
	if req.Email != "" && !utils.ValidateEmail(req.Email) {
		response.BindError(ctx, c, fmt.Errorf("invalid email address"))
		return
	}

	contact, err := contactService.CreateContact(ctx, userID, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, contact)
}

// ListContacts returns the user's contacts ordered by priority.
// GET /v1/contacts
func ListContacts(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	contacts, err := contactService.ListContacts(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, contacts)
}

// DeleteContact removes one contact by ID.
// DELETE /v1/contacts/:contact_id
func DeleteContact(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, pkgerrors.Unauthorized)
		return
	}

	contactID, err := strconv.ParseInt(c.Param("contact_id"), 10, 64)
	if err != nil {
		response.BindError(ctx, c, fmt.Errorf("invalid contact ID"))
		return
	}

	if err := contactService.DeleteContact(ctx, userID, contactID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.NoContent(ctx, c)
}
