package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create order: %w", InsufficientStock("insufficient stock for medicine %d", 7))

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindInsufficientStock, KindOf(err))
	assert.Equal(t, "create order: insufficient stock for medicine 7", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestError_EmptyMessageFallsBackToKind(t *testing.T) {
	assert.Equal(t, "FORBIDDEN", ErrForbidden.Error())
}
