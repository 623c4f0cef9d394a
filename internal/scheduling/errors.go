package scheduling

import "errors"

var (
	ErrInvalidRange      = errors.New("end date is before start date")
	ErrUnknownTimezone   = errors.New("unknown timezone")
	ErrInvalidDuration   = errors.New("duration must be positive")
	ErrInvalidWindow     = errors.New("window start must be before its end")
	ErrInvalidWeekday    = errors.New("invalid day of week")
	ErrInvalidClock      = errors.New("invalid wall-clock time")
	ErrConflict          = errors.New("requested time is no longer available")
	ErrInvalidTransition = errors.New("booking is not in a state that allows this action")
	ErrNotApprover       = errors.New("caller is not an approver for this booking")
	ErrReasonRequired    = errors.New("rejection reason is required")
)
