package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("claim alice: %w", ErrAlreadyClaimed)

	assert.Equal(t, ErrCodeAlreadyClaimed, CodeOf(wrapped))
	assert.True(t, stderrors.Is(wrapped, ErrAlreadyClaimed))
	assert.False(t, stderrors.Is(wrapped, ErrNoEntitlement))
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("boom")))
	assert.Equal(t, ErrCodeInternal, CodeOf(nil))
}

func TestLedgerErrorJSON(t *testing.T) {
	assert.JSONEq(t, `{"code":"unauthorized","message":"Caller is not the owner"}`, ErrUnauthorized.JSON())
	assert.Equal(t, ErrMsgInsufficientBalance, ErrInsufficientBalance.Error())
}
