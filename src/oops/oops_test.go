package oops

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

var errSample = errors.New("the disk is on fire")

type sampleErrorType struct {
	Message string
}

func (s sampleErrorType) Error() string {
	return s.Message
}

func init() {
	zerolog.ErrorStackMarshaler = ZerologStackMarshaler
}

func TestNew(t *testing.T) {
	t.Run("errors.Is", func(t *testing.T) {
		err := New(errSample, "test error")
		assert.True(t, errors.Is(err, errSample))
	})
	t.Run("errors.As", func(t *testing.T) {
		err := New(sampleErrorType{Message: "a fancy error has occurred"}, "test error")
		var sErr sampleErrorType
		assert.True(t, errors.As(err, &sErr))
		assert.Equal(t, "a fancy error has occurred", sErr.Message)
	})
	t.Run("message includes wrapped error", func(t *testing.T) {
		err := New(errSample, "failed to frobnicate")
		assert.Equal(t, "failed to frobnicate: the disk is on fire", err.Error())
	})
	t.Run("nil wrapped error is fine", func(t *testing.T) {
		err := New(nil, "just a message")
		assert.NotNil(t, err)
		assert.Nil(t, errors.Unwrap(err))
	})
}

func TestTrace(t *testing.T) {
	frames := Trace()
	assert.NotEmpty(t, frames)
	assert.Contains(t, frames[0].Function, "TestTrace")
}
