// pkg/converter/values.go
package converter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNull is returned when a value is missing
var ErrNull = errors.New("null value")

// ErrNonFinite is returned for NaN and infinite numbers
var ErrNonFinite = errors.New("non-finite number")

// ToFloat attempts to convert a value to a finite float64
func ToFloat(v interface{}) (float64, error) {
	if v == nil {
		return 0, ErrNull
	}

	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, ErrNull
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string '%s' to numeric: %w", val, err)
		}
		f = parsed
	case []byte:
		return ToFloat(string(val))
	default:
		return 0, fmt.Errorf("cannot convert %T to numeric", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNonFinite
	}
	return f, nil
}

// ToInt attempts to convert a value to int
// Integral float text such as "2000.0" is accepted.
func ToInt(v interface{}) (int, error) {
	if v == nil {
		return 0, ErrNull
	}

	switch val := v.(type) {
	case int:
		return val, nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case string:
		cleaned := strings.TrimSpace(val)
		if cleaned == "" {
			return 0, ErrNull
		}
		if i, err := strconv.Atoi(cleaned); err == nil {
			return i, nil
		}
		f, err := ToFloat(cleaned)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("cannot convert '%s' to integer: fractional value", val)
		}
		return int(f), nil
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) {
			return 0, fmt.Errorf("cannot convert %v to integer", val)
		}
		return int(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}

// FormatFloat renders a float so that ToFloat returns the identical value
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// toString converts an interface to string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
