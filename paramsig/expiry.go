package paramsig

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampFormat identifies how the timestamp field is encoded.
type TimestampFormat string

const (
	// TimestampUnix is decimal seconds since the Unix epoch.
	TimestampUnix TimestampFormat = "unix"

	// TimestampUnixMilli is decimal milliseconds since the Unix epoch.
	TimestampUnixMilli TimestampFormat = "unix_ms"
)

func (f TimestampFormat) valid() bool {
	return f == TimestampUnix || f == TimestampUnixMilli
}

// ParseTimestamp parses a timestamp field value.
func ParseTimestamp(value string, format TimestampFormat) (time.Time, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q is not an integer", ErrMalformedField, value)
	}

	switch format {
	case TimestampUnix, "":
		return time.Unix(n, 0), nil
	case TimestampUnixMilli:
		return time.UnixMilli(n), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedTimestampFormat, string(format))
	}
}

// FormatTimestamp renders t in the given format.
func FormatTimestamp(t time.Time, format TimestampFormat) string {
	if format == TimestampUnixMilli {
		return strconv.FormatInt(t.UnixMilli(), 10)
	}

	return strconv.FormatInt(t.Unix(), 10)
}

// CheckExpiry returns ErrSignatureExpired unless the age of ts at now lies
// in [-skew, window]. A request exactly window old is still accepted.
func CheckExpiry(ts time.Time, window, skew time.Duration, now time.Time) error {
	age := now.Sub(ts)

	if age > window {
		return fmt.Errorf("%w: age %s exceeds window %s", ErrSignatureExpired, age, window)
	}

	if age < -skew {
		return fmt.Errorf("%w: timestamp is %s in the future", ErrSignatureExpired, -age)
	}

	return nil
}
