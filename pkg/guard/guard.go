// Package guard holds pure predicates that validate input and report a
// pass/fail verdict with a human readable message.
package guard

import (
	"encoding/json"
	"fmt"
	"reflect"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Verdict is the outcome of a single guard.
type Verdict struct {
	Succeeded bool
	Message   string
}

// Argument names a value for the bulk guards.
type Argument struct {
	Value any
	Name  string
}

var (
	pass     = Verdict{Succeeded: true}
	validate = validator.New()
)

func fail(format string, args ...any) Verdict {
	return Verdict{Message: fmt.Sprintf(format, args...)}
}

// Combine returns the first failed verdict, or a pass.
func Combine(verdicts ...Verdict) Verdict {
	for _, v := range verdicts {
		if !v.Succeeded {
			return v
		}
	}
	return pass
}

// AgainstNilOrEmpty fails for nil values, nil pointers/maps/slices and the
// empty string.
func AgainstNilOrEmpty(value any, name string) Verdict {
	if isAbsent(value) {
		return fail("%s is null or undefined", name)
	}
	return pass
}

// AgainstNilOrEmptyBulk applies AgainstNilOrEmpty in order and stops at the
// first failure.
func AgainstNilOrEmptyBulk(args []Argument) Verdict {
	for _, a := range args {
		if v := AgainstNilOrEmpty(a.Value, a.Name); !v.Succeeded {
			return v
		}
	}
	return pass
}

func AgainstInvalidEmail(value, name string) Verdict {
	if v := AgainstNilOrEmpty(value, name); !v.Succeeded {
		return v
	}
	if err := validate.Var(value, "email,max=254"); err != nil {
		return fail("%s is not a valid format.", name)
	}
	return pass
}

// AgainstInvalidPassword requires 6 to 20 characters with at least one ASCII
// digit, one lowercase and one uppercase letter.
func AgainstInvalidPassword(value, name string) Verdict {
	if v := AgainstNilOrEmpty(value, name); !v.Succeeded {
		return v
	}
	n := utf8.RuneCountInString(value)
	var digit, lower, upper bool
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r == '\n' || r == '\r':
			n = -1
		}
	}
	if n < 6 || n > 20 || !digit || !lower || !upper {
		return fail("%s must be 6 to 20 characters and at least one numeric, one uppercase and one lowercase", name)
	}
	return pass
}

func AgainstInvalidUsername(value, name string) Verdict {
	if v := AgainstNilOrEmpty(value, name); !v.Succeeded {
		return v
	}
	if n := utf8.RuneCountInString(value); n < 5 || n > 15 {
		return fail("%s must be 5 to 15 characters.", name)
	}
	return pass
}

func GreaterThan(min, actual float64) Verdict {
	if actual > min {
		return pass
	}
	return fail("Number given {%v} is not greater than {%v}", actual, min)
}

func AgainstAtLeast(numChars int, text, name string) Verdict {
	if utf8.RuneCountInString(text) >= numChars {
		return pass
	}
	return fail("%s is not at least %d chars.", name, numChars)
}

func AgainstAtMost(numChars int, text, name string) Verdict {
	if utf8.RuneCountInString(text) <= numChars {
		return pass
	}
	return fail("%s is greater than %d chars.", name, numChars)
}

func IsOneOf[T comparable](value T, valid []T, name string) Verdict {
	for _, v := range valid {
		if v == value {
			return pass
		}
	}
	b, _ := json.Marshal(valid)
	return fail("%s isn't oneOf the correct types in %s. Got \"%v\".", name, b, value)
}

func InRange(num, min, max float64, name string) Verdict {
	if num >= min && num <= max {
		return pass
	}
	return fail("%s is not within range %v to %v.", name, min, max)
}

func AllInRange(nums []float64, min, max float64, name string) Verdict {
	for _, n := range nums {
		if !InRange(n, min, max, name).Succeeded {
			return fail("%s is not within the range.", name)
		}
	}
	return pass
}

func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
