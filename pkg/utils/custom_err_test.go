package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitExceededErrorUnwrapsToSentinel(t *testing.T) {
	var err error = &LimitExceededError{Feature: "lesson", Limit: 10, Used: 10}

	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, "lesson limit 10/10 reached", err.Error())

	var denied *LimitExceededError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "lesson", denied.Feature)
	assert.Equal(t, 10, denied.Limit)
	assert.Equal(t, 10, denied.Used)
}

func TestWrappedSentinelsSurviveFmtErrorf(t *testing.T) {
	err := fmt.Errorf("%w: openai timeout", ErrGenerationFailed)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	err = fmt.Errorf("%w: status 503", ErrVerificationTransient)
	assert.ErrorIs(t, err, ErrVerificationTransient)
	assert.NotErrorIs(t, err, ErrVerificationPermanent)
}
