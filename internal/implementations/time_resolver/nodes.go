package timeresolver

import (
	"time"

	"github.com/golang-module/carbon/v2"
)

type nodeVisitor interface {
	visitAbsolute(a absolute) error
	visitRelative(r relative) error
	visitOn(o on) error
	visitAt(a at) error
}

type node interface {
	accept(v nodeVisitor) error
}

type at struct {
	hour   int
	minute int
}

func (a at) accept(v nodeVisitor) error {
	return v.visitAt(a)
}

type absolute struct {
	value carbon.Carbon
}

func (a absolute) accept(v nodeVisitor) error {
	return v.visitAbsolute(a)
}

type period string

var (
	second period = period("s")
	minute period = period("m")
	hour   period = period("h")
	day    period = period("d")
	week   period = period("w")
	month  period = period("mo")
)

func (p period) isDateLevel() bool {
	return p == day || p == week || p == month
}

type amount struct {
	n int
	p period
}

// relative is an offset from the reference time. A clock is only applied
// when every amount is a whole number of days, weeks or months.
type relative struct {
	amounts []amount
	at      *at
}

func (r relative) accept(v nodeVisitor) error {
	return v.visitRelative(r)
}

type calendarDate struct {
	year         int
	month        int
	day          int
	explicitYear bool
}

// on is a day, given as an offset in days, a weekday or a calendar date,
// with an optional clock.
type on struct {
	offset  int
	weekday *time.Weekday
	date    *calendarDate
	evening bool
	at      *at
}

func (o on) accept(v nodeVisitor) error {
	return v.visitOn(o)
}
