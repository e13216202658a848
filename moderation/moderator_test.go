package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censor_PlainWord(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	censored, found := moderator.Censor("what an idiot move")

	req.Equal("what an ***** move", censored)
	req.Equal([]string{"idiot"}, found)
}

func TestModerator_Censor_LeetSpeak(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	censored, found := moderator.Censor("you 1d10t")

	req.Equal("you *****", censored)
	req.Len(found, 1)
}

func TestModerator_Censor_NoMatch(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"idiot"}, '*')
	req.NoError(err)

	censored, found := moderator.Censor("hello world")

	req.Equal("hello world", censored)
	req.Empty(found)
}

func TestModerator_Censor_PreservesCasingAroundMatch(t *testing.T) {
	req := require.New(t)
	moderator, err := NewModerator([]string{"jerk"}, '#')
	req.NoError(err)

	censored, _ := moderator.Censor("Jerk alert")

	req.Equal("#### alert", censored)
}
