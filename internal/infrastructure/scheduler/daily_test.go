package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUntilNext(t *testing.T) {
	t.Parallel()

	sched := NewDailyScheduler(8, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{
			name: "before trigger hour",
			now:  time.Date(2026, time.March, 10, 6, 30, 0, 0, time.UTC),
			want: 90 * time.Minute,
		},
		{
			name: "after trigger hour waits for tomorrow",
			now:  time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC),
			want: 23 * time.Hour,
		},
		{
			name: "exactly at trigger hour is strictly after",
			now:  time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC),
			want: 24 * time.Hour,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, sched.untilNext(tc.now))
		})
	}
}

func TestStartRunsJobImmediately(t *testing.T) {
	t.Parallel()

	sched := NewDailyScheduler(8, time.UTC)
	fixed := time.Date(2026, time.March, 10, 7, 0, 0, 0, time.UTC)
	sched.now = func() time.Time { return fixed }

	fired := make(chan time.Time, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, sched.Start(ctx, func(trigger time.Time) {
		fired <- trigger
	}))
	defer func() { _ = sched.Stop(context.Background()) }()

	select {
	case trigger := <-fired:
		require.Equal(t, fixed, trigger)
	case <-time.After(time.Second):
		t.Fatal("job did not fire on start")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	sched := NewDailyScheduler(8, time.UTC)
	require.NoError(t, sched.Start(context.Background(), func(time.Time) {}))
	require.NoError(t, sched.Stop(context.Background()))
	require.NoError(t, sched.Stop(context.Background()))
}

func TestRepeatedStartStopCycles(t *testing.T) {
	t.Parallel()

	sched := NewDailyScheduler(8, time.UTC)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		require.NoError(t, sched.Start(ctx, func(time.Time) {}))
		require.NoError(t, sched.Stop(ctx))
	}
}

func TestStopDuringRunningJob(t *testing.T) {
	t.Parallel()

	sched := NewDailyScheduler(8, time.UTC)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})

	require.NoError(t, sched.Start(context.Background(), func(time.Time) {
		close(entered)
		<-release
		close(done)
	}))

	<-entered
	require.NoError(t, sched.Stop(context.Background()))
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not finish")
	}

	// The stop signal issued mid-job must not be lost: the scheduling
	// goroutine exits instead of arming the next trigger, so a restart
	// is accepted cleanly.
	require.NoError(t, sched.Start(context.Background(), func(time.Time) {}))
	require.NoError(t, sched.Stop(context.Background()))
}
