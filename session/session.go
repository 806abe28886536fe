// Package session gates instrument eligibility by time of day in the
// operator's timezone, with wrap-aware windows for sessions that cross
// midnight.
package session

import (
	"fmt"
	"time"

	"github.com/dxbquant/orb/market"
)

const minutesPerDay = 24 * 60

// Window is a minute-of-day interval, inclusive on both ends. A window
// whose Close is numerically before its Open wraps past midnight.
type Window struct {
	Open  int
	Close int
}

// Contains reports whether the minute-of-day falls inside the window,
// handling the midnight wrap.
func (w Window) Contains(minute int) bool {
	if w.Open <= w.Close {
		return minute >= w.Open && minute <= w.Close
	}
	return minute >= w.Open || minute <= w.Close
}

// Wraps reports whether the window crosses midnight.
func (w Window) Wraps() bool {
	return w.Open > w.Close
}

// ParseWindow parses "HH:MM-HH:MM" into a Window.
func ParseWindow(s string) (Window, error) {
	var oh, om, ch, cm int
	if _, err := fmt.Sscanf(s, "%d:%d-%d:%d", &oh, &om, &ch, &cm); err != nil {
		return Window{}, fmt.Errorf("parse window %q: %w", s, err)
	}
	w := Window{Open: oh*60 + om, Close: ch*60 + cm}
	if w.Open < 0 || w.Open >= minutesPerDay || w.Close < 0 || w.Close >= minutesPerDay {
		return Window{}, fmt.Errorf("parse window %q: minute out of range", s)
	}
	return w, nil
}

// MinuteOf returns the minute-of-day of t in its own location.
func MinuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Scheduler decides which sessions accept new entries at a given wall
// time. All windows are expressed in the scheduler's location (the
// operator timezone, Asia/Dubai by default).
type Scheduler struct {
	loc *time.Location

	trading   map[market.Session]Window
	formation map[market.Session]Window
}

// New creates a scheduler for the named timezone with per-session
// trading and opening-range-formation windows.
func New(timezone string, trading, formation map[market.Session]Window) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Scheduler{loc: loc, trading: trading, formation: formation}, nil
}

// Default returns the Dubai-reference scheduler: UK 12:00-20:30, US
// 18:30-01:00 (wrapping midnight), formation windows 12:00-12:30 and
// 18:30-19:00.
func Default() *Scheduler {
	loc, err := time.LoadLocation("Asia/Dubai")
	if err != nil {
		panic(err) // Asia/Dubai ships with the zoneinfo database
	}
	return &Scheduler{
		loc: loc,
		trading: map[market.Session]Window{
			market.SessionUK: {Open: 12 * 60, Close: 20*60 + 30},
			market.SessionUS: {Open: 18*60 + 30, Close: 60},
		},
		formation: map[market.Session]Window{
			market.SessionUK: {Open: 12 * 60, Close: 12*60 + 30},
			market.SessionUS: {Open: 18*60 + 30, Close: 19 * 60},
		},
	}
}

// Eligible reports whether the session accepts new entries at t.
// Open positions are managed regardless of eligibility.
func (s *Scheduler) Eligible(sess market.Session, t time.Time) bool {
	w, ok := s.trading[sess]
	if !ok {
		return false
	}
	return w.Contains(MinuteOf(t.In(s.loc)))
}

// InFormation reports whether t falls in the session's opening-range
// formation period.
func (s *Scheduler) InFormation(sess market.Session, t time.Time) bool {
	w, ok := s.formation[sess]
	if !ok {
		return false
	}
	return w.Contains(MinuteOf(t.In(s.loc)))
}

// AnyOpen reports whether any session accepts new entries at t.
func (s *Scheduler) AnyOpen(t time.Time) bool {
	for sess := range s.trading {
		if s.Eligible(sess, t) {
			return true
		}
	}
	return false
}

// SessionDate returns the local calendar date the session at t belongs
// to. For a window that wraps midnight, minutes after midnight still
// belong to the previous day's session.
func (s *Scheduler) SessionDate(sess market.Session, t time.Time) time.Time {
	lt := t.In(s.loc)
	if w, ok := s.trading[sess]; ok && w.Wraps() && MinuteOf(lt) <= w.Close {
		lt = lt.AddDate(0, 0, -1)
	}
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}
