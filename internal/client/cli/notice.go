package cli

import (
	"errors"

	"github.com/dmitrijs2005/machinecal/internal/common"
)

// errUsage reports a command typed with missing or malformed arguments.
type errUsage string

func (e errUsage) Error() string { return "usage: " + string(e) }

// Notice turns an error into the one-line message shown to the user.
func Notice(err error) string {
	var (
		ve *common.ValidationError
		fe *common.ImportFormatError
		se *common.StorageError
		ue errUsage
	)

	switch {
	case errors.Is(err, common.ErrCancelled):
		return "Cancelled."
	case errors.Is(err, common.ErrNothingToExport):
		return "⚠️ No data to export"
	case errors.Is(err, common.ErrNothingToDelete):
		return "⚠️ No data to delete"
	case errors.Is(err, common.ErrNotFound):
		return "⚠️ No machine with that id"
	case errors.As(err, &ue):
		return "⚠️ " + ue.Error()
	case errors.As(err, &fe):
		return "❌ Error importing file: " + fe.Error()
	case errors.As(err, &ve):
		return "⚠️ Invalid " + ve.Error()
	case errors.As(err, &se):
		return "⚠️ Change applied for this session but not saved: " + se.Error()
	default:
		return "❌ " + err.Error()
	}
}
