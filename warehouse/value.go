package warehouse

import (
	"math/big"
	"strings"
	"time"
	"unicode/utf8"
)

// NormalizeValue converts driver-specific scan values into the plain forms
// the export artifact serializes: timestamps become ISO-8601 strings, big
// numerics become float approximations, and raw bytes become UTF-8 text with
// invalid sequences replaced rather than rejected.
func NormalizeValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case time.Time:
		return typed.Format(time.RFC3339Nano)
	case []byte:
		return replaceInvalidUTF8(typed)
	case *big.Float:
		if typed == nil {
			return nil
		}
		approx, _ := typed.Float64()
		return approx
	case *big.Int:
		if typed == nil {
			return nil
		}
		approx, _ := new(big.Float).SetInt(typed).Float64()
		return approx
	default:
		return value
	}
}

func replaceInvalidUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	var builder strings.Builder
	builder.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			builder.WriteRune(utf8.RuneError)
		} else {
			builder.WriteRune(r)
		}
		data = data[size:]
	}
	return builder.String()
}
