package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"scheduler/shared/constant"
	"scheduler/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

const endOfDay = "24:00"

var weekdays = map[string]struct{}{
	"mon": {}, "tue": {}, "wed": {}, "thu": {}, "fri": {}, "sat": {}, "sun": {},
}

// validateClock accepts "15:04" plus "24:00" as the end of a day.
func validateClock(field val.FieldLevel) bool {
	value := field.Field().String()
	if value == endOfDay {
		return true
	}

	_, err := time.Parse(constant.ClockTimeFormat, value)

	return err == nil
}

func validateDate(field val.FieldLevel) bool {
	_, err := time.Parse(constant.DateOnlyFormat, field.Field().String())

	return err == nil
}

func validateWeekday(field val.FieldLevel) bool {
	_, ok := weekdays[strings.ToLower(field.Field().String())]

	return ok
}

func validateTimezone(field val.FieldLevel) bool {
	_, err := time.LoadLocation(field.Field().String())

	return err == nil
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validations := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		"clock":    validateClock,
		"date":     validateDate,
		"weekday":  validateWeekday,
		"timezone": validateTimezone,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0] //nolint:mnd
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})
}

// Validate decodes JSON from r into data and validates the result.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
