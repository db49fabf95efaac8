package console

import (
	"github.com/jwalitptl/admin-console/pkg/errors"
)

// exportError keeps the code of err but replaces the message with the
// one shown to the admin.
func exportError(entity string, err error) error {
	return &errors.AppError{
		Code:    errors.CodeOf(err),
		Message: "Failed to export " + entity,
		Err:     err,
	}
}
