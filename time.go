package wardroom

import (
	"time"
)

// UnixTime represents a point in time as POSIX time.
// This type comes in handy when dealing with protobuf messages. Instead of
// using Go's time.Time that includes nanoseconds use primitive int64 type
// with seconds precision.
//
// When using in protobuf declaration, use gogoproto's typecasting
//
//	int64 created_at = 1 [(gogoproto.casttype) = "github.com/wardroom/wardroom.UnixTime"];
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// String returns the usual date time format of the represented time.
func (t UnixTime) String() string {
	return t.Time().UTC().Format(time.RFC3339)
}
