package market

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an HH:MM string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Session describes the regular trading hours of an exchange.
type Session struct {
	Location *time.Location
	Open     Clock
	Close    Clock
}

// NewYorkSession returns the US equities session: 09:30-16:00 America/New_York.
func NewYorkSession() (Session, error) {
	return NewSession("America/New_York", "09:30", "16:00")
}

// NewSession builds a session from config values.
func NewSession(timezone, open, closeAt string) (Session, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Session{}, fmt.Errorf("load timezone: %w", err)
	}
	o, err := ParseClock(open)
	if err != nil {
		return Session{}, err
	}
	c, err := ParseClock(closeAt)
	if err != nil {
		return Session{}, err
	}
	if o.minutes() >= c.minutes() {
		return Session{}, fmt.Errorf("session open %s is not before close %s", o, c)
	}
	return Session{Location: loc, Open: o, Close: c}, nil
}

// IsOpen reports whether t falls inside regular trading hours.
// Weekends are always closed.
func (s Session) IsOpen(t time.Time) bool {
	local := t.In(s.Location)
	if isWeekend(local.Weekday()) {
		return false
	}
	m := local.Hour()*60 + local.Minute()
	return m >= s.Open.minutes() && m < s.Close.minutes()
}

// NextOpenDate returns local midnight of the date whose regular session a
// trade placed at t would execute in. A weekday timestamp before the open
// trades the same day; everything else rolls to the next weekday.
func (s Session) NextOpenDate(t time.Time) time.Time {
	local := t.In(s.Location)
	day := s.Midnight(local)
	m := local.Hour()*60 + local.Minute()
	if !isWeekend(local.Weekday()) && m < s.Open.minutes() {
		return day
	}
	return NextWeekday(day)
}

// Midnight returns 00:00 of t's local date.
func (s Session) Midnight(t time.Time) time.Time {
	local := t.In(s.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Location)
}

// ParseDate parses a YYYY-MM-DD date as local midnight.
func (s Session) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, date, s.Location)
}

// ParseDateTime parses a YYYY-MM-DD date and HH:MM time in the session location.
func (s Session) ParseDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, s.Location)
}

// NextWeekday returns the first day after d that is not a Saturday or Sunday.
// The time of day and location of d are preserved.
func NextWeekday(d time.Time) time.Time {
	d = d.AddDate(0, 0, 1)
	for isWeekend(d.Weekday()) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func isWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}
