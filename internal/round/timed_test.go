package round

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdlc-quest/internal/domain"
)

func TestTimedExpiryAutoResolvesWrongExactlyOnce(t *testing.T) {
	level := timedLevel(15)
	for pick := 0; pick < 2; pick++ {
		tr := NewTimed(New(level), func(n int) int { return pick % n })
		require.NoError(t, tr.ChooseSubject("bank"))
		require.True(t, tr.Active())

		fires := 0
		var last domain.Outcome
		for i := 0; i < level.TimeLimit+5; i++ {
			out, fired, err := tr.Tick()
			require.NoError(t, err)
			if fired {
				fires++
				last = out
				assert.Equal(t, level.TimeLimit, i+1, "fires on the Nth tick")
			}
		}
		assert.Equal(t, 1, fires)
		assert.False(t, tr.Active())
		assert.True(t, last.TimedOut)
		assert.False(t, last.Correct)
		assert.NotEqual(t, "waterfall", last.OptionID)
		assert.Zero(t, last.Awarded)
		assert.Equal(t, domain.RoundResolved, tr.State())
	}
}

func TestTimedManualResolutionStopsTimer(t *testing.T) {
	level := timedLevel(15)
	tr := NewTimed(New(level), nil)
	require.NoError(t, tr.ChooseSubject("bank"))

	for i := 0; i < 4; i++ {
		_, fired, err := tr.Tick()
		require.NoError(t, err)
		require.False(t, fired)
	}
	out, err := tr.ChooseOption("waterfall")
	require.NoError(t, err)
	assert.False(t, tr.Active())
	assert.Equal(t, level.FirstTryBonus+11*level.TimeBonusPerSecond, out.Awarded)

	for i := 0; i < 30; i++ {
		_, fired, err := tr.Tick()
		require.NoError(t, err)
		assert.False(t, fired)
	}
	assert.Equal(t, "waterfall", tr.View().ChosenOptionID)
}

func TestTimedRetryRearmsAtFullDuration(t *testing.T) {
	tr := NewTimed(New(timedLevel(10)), nil)
	require.NoError(t, tr.ChooseSubject("bank"))
	for i := 0; i < 6; i++ {
		_, _, _ = tr.Tick()
	}
	_, err := tr.ChooseOption("agile")
	require.NoError(t, err)
	assert.False(t, tr.Active())

	require.NoError(t, tr.Retry())
	assert.True(t, tr.Active())
	assert.Equal(t, 10, tr.Remaining())

	out, err := tr.ChooseOption("waterfall")
	require.NoError(t, err)
	assert.Equal(t, 100+10*10, out.Awarded, "retry bonus plus a full clock")
}

func TestTimedResetDeactivates(t *testing.T) {
	tr := NewTimed(New(timedLevel(5)), nil)
	require.NoError(t, tr.ChooseSubject("bank"))
	_, _, _ = tr.Tick()
	tr.Reset()

	v := tr.View()
	assert.False(t, v.TimerActive)
	assert.Equal(t, 5, v.SecondsLeft)
	assert.Equal(t, domain.RoundIdle, v.State)
	_, fired, err := tr.Tick()
	assert.NoError(t, err)
	assert.False(t, fired)
}

func TestTimedExpiryWithoutWrongOption(t *testing.T) {
	level := timedLevel(1)
	level.Options = level.Options[:1]
	tr := NewTimed(New(level), nil)
	require.NoError(t, tr.ChooseSubject("bank"))

	_, fired, err := tr.Tick()
	assert.True(t, fired)
	assert.ErrorIs(t, err, domain.ErrNoIncorrectOption)
	assert.False(t, tr.Active())
}

func timedLevel(limit int) domain.Level {
	return domain.Level{
		Number: 3,
		Subjects: []domain.Subject{
			{ID: "bank", Name: "Hospital", CorrectOptionID: "waterfall"},
		},
		Options: []domain.Option{
			{ID: "waterfall"},
			{ID: "agile"},
			{ID: "spiral"},
		},
		FirstTryBonus:      200,
		RetryBonus:         100,
		TimeLimit:          limit,
		TimeBonusPerSecond: 10,
	}
}
