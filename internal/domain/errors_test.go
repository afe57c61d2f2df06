package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	assert.Equal(t, "", Code(nil))
	assert.Equal(t, "", Code(errors.New("boom")))
	assert.Equal(t, "invalid_format", Code(ErrInvalidFormat))
	assert.Equal(t, "not_future_event", Code(ErrNotFutureEvent))

	wrapped := fmt.Errorf("fetch 123: %w", ErrTransportFailure)
	assert.Equal(t, "transport_failure", Code(wrapped))

	joined := errors.Join(errors.New("x"), ErrMalformedEventRecord)
	assert.Equal(t, "malformed_event_record", Code(joined))
}
