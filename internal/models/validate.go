package models

import "childguard/backend/internal/apperr"

func errInvalidEnum(field, value string) error {
	return apperr.Validationf("invalid %s %q", field, value)
}

func errInvariant(msg string) error {
	return apperr.Validation(msg)
}
