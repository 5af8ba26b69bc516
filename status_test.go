package d3xx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusErr(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(StatusSuccess.Err())
	assert.Equal(error(ErrInvalidHandle), Status(1).Err())
	assert.Equal(error(ErrTimeout), Status(19).Err())
	assert.Equal(error(ErrIOPending), Status(24).Err())
	assert.Equal(error(ErrIOIncomplete), Status(25).Err())
	assert.Equal(error(ErrOther), Status(32).Err())

	// Codes beyond the taxonomy fold into the catch-all.
	assert.Equal(error(ErrOther), Status(33).Err())
	assert.Equal(error(ErrOther), Status(0xffffffff).Err())
}

func TestErrorCode(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(19), ErrTimeout.Code())
	assert.Equal(uint8(2), ErrDeviceNotFound.Code())
	assert.Equal(uint8(32), ErrOther.Code())
}

func TestErrorMessage(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("d3xx: timeout (status 19)", ErrTimeout.Error())
	assert.Equal("d3xx: invalid handle (status 1)", ErrInvalidHandle.Error())
	assert.Equal("d3xx: other error (status 32)", ErrOther.Error())
	assert.Equal("d3xx: other error (status 77)", Error(77).Error())
}
