package ratelimiter

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var Now = time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

func TestWindowKey(t *testing.T) {
	type testcase struct {
		id       int
		interval Interval
		key      string
	}
	cases := []testcase{
		{id: 1, interval: Minute, key: fmt.Sprintf("k::m%d", Now.Unix()/60)},
		{id: 2, interval: Hour, key: fmt.Sprintf("k::h%d", Now.Unix()/3600)},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.id), func(t *testing.T) {
			require.Equal(t, c.key, c.interval.WindowKey("k", Now))
		})
	}
}

func TestSameMinuteOfDifferentHoursDoNotShareWindow(t *testing.T) {
	require.NotEqual(t, Minute.WindowKey("k", Now), Minute.WindowKey("k", Now.Add(time.Hour)))
}

func TestZeroIntervalPanics(t *testing.T) {
	require.Panics(t, func() { Interval{}.WindowKey("k", Now) })
}

func TestLimitString(t *testing.T) {
	require.Equal(t, "20/m", PerMinute(20).String())
	require.Equal(t, "3/h", Limit{Value: 3, Interval: Hour}.String())
}
