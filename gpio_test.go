package d3xx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftlab/d3xx"
)

func TestGpioEnableAndWrite(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)

	require.NoError(t, dev.GPIO(d3xx.GpioPin0).Enable(d3xx.GpioOutput))
	require.NoError(t, dev.GPIO(d3xx.GpioPin1).Enable(d3xx.GpioInput))

	enabled, direction, _ := sim.GPIOState()
	assert.Equal(uint32(0b11), enabled)
	assert.Equal(uint32(0b01), direction)

	require.NoError(t, dev.GPIO(d3xx.GpioPin0).Write(d3xx.GpioHigh))
	_, _, value := sim.GPIOState()
	assert.Equal(uint32(0b01), value)

	require.NoError(t, dev.GPIO(d3xx.GpioPin0).Write(d3xx.GpioLow))
	_, _, value = sim.GPIOState()
	assert.Zero(value)
}

func TestGpioRead(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.SetGPIOValue(0b10)

	level, err := dev.GPIO(d3xx.GpioPin1).Read()
	require.NoError(t, err)
	assert.Equal(d3xx.GpioHigh, level)

	level, err = dev.GPIO(d3xx.GpioPin0).Read()
	require.NoError(t, err)
	assert.Equal(d3xx.GpioLow, level)
}

func TestGpioPull(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)

	require.NoError(t, dev.GPIO(d3xx.GpioPin1).SetPull(d3xx.GpioPullUp))
	mask, value := sim.PullArgs()
	assert.Equal(uint32(0b10), mask)
	assert.Equal(uint32(0b100), value)

	require.NoError(t, dev.GPIO(d3xx.GpioPin0).SetPull(d3xx.GpioHighImpedance))
	mask, value = sim.PullArgs()
	assert.Equal(uint32(0b01), mask)
	assert.Equal(uint32(0b01), value)
}
