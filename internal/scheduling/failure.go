package scheduling

import (
	"errors"
	"scheduler/shared/failure"
)

// ToFailure maps engine errors onto HTTP-coded failures. Other errors pass through unchanged.
func ToFailure(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidRange), errors.Is(err, ErrUnknownTimezone), errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrInvalidWeekday), errors.Is(err, ErrInvalidClock),
		errors.Is(err, ErrReasonRequired):
		return failure.BadRequest(err)
	case errors.Is(err, ErrConflict):
		return failure.Conflict(ErrConflict.Error() + ", fetch available slots again")
	case errors.Is(err, ErrInvalidTransition):
		return failure.UnprocessableEntity(err.Error())
	case errors.Is(err, ErrNotApprover):
		return failure.Forbidden(err.Error())
	}

	return err
}
