package domain

import "time"

// DisplayTimeLayout renders the 24-hour HH:mm:ss time shown next to messages.
const DisplayTimeLayout = "15:04:05"

type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time in a fixed location.
type SystemClock struct {
	location *time.Location
}

func NewSystemClock(location *time.Location) SystemClock {
	if location == nil {
		location = time.Local
	}
	return SystemClock{location: location}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.location)
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

func DisplayTime(t time.Time) string {
	return t.Format(DisplayTimeLayout)
}
