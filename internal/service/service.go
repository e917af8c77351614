// Package service holds the business rules. Services take their stores and
// logger through constructors so tests can swap in fakes.
package service

import (
	"strconv"

	pkgerrors "IAmFine/pkg/errors"
)

// parsePublicID converts the JWT identity (the user's public snowflake ID,
// carried as a string) into its numeric form. The whole string must be a
// positive decimal number, trailing garbage is rejected.
func parsePublicID(userID string) (int64, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.InvalidUserID
	}
	return id, nil
}
