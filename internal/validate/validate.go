// Package validate checks command-line input before any network or storage
// work starts.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidGamePk = errors.New("invalid gamePk")
	ErrInvalidMode   = errors.New("invalid fetch mode")
)

var (
	datePattern   = regexp.MustCompile(`^20[0-9]{2}-[0-9]{2}-[0-9]{2}$`)
	gamePkPattern = regexp.MustCompile(`^20[1-9][0-9]0\d{5}$`)
)

// Tags applied with validator.Var to single CLI values.
const (
	dateTag   = "required,api_date,datetime=2006-01-02"
	gamePkTag = "required,game_pk"
	modeTag   = "oneof=DATE GAMEPK FLAG"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	patterns := map[string]*regexp.Regexp{
		"api_date": datePattern,
		"game_pk":  gamePkPattern,
	}
	for tag, re := range patterns {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return v
}

// Mode selects the work-set of a batch stage.
type Mode string

const (
	ModeDate   Mode = "DATE"
	ModeGamePk Mode = "GAMEPK"
	ModeFlag   Mode = "FLAG"
)

// Date checks a YYYY-MM-DD date and returns it parsed as UTC midnight.
func Date(value string) (time.Time, error) {
	if err := validate.Var(value, dateTag); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, value)
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return d, nil
}

// GamePk checks a gamePk such as 2020020001.
func GamePk(value string) (int, error) {
	if err := validate.Var(value, gamePkTag); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGamePk, value)
	}
	pk, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGamePk, value)
	}
	return pk, nil
}

// ParseMode accepts DATE, GAMEPK or FLAG (case-insensitive).
func ParseMode(value string) (Mode, error) {
	m := strings.ToUpper(strings.TrimSpace(value))
	if err := validate.Var(m, modeTag); err != nil {
		return "", fmt.Errorf("%w: %q (expected DATE, GAMEPK or FLAG)", ErrInvalidMode, value)
	}
	return Mode(m), nil
}

// DateRange checks both ends of an inclusive range and that start <= end.
func DateRange(start, end string) (time.Time, time.Time, error) {
	s, err := Date(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := Date(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDate, end, start)
	}
	return s, e, nil
}
