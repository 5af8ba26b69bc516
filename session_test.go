package d3xx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftlab/d3xx"
)

func TestPipeRoundTrip(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.MirrorPipes(d3xx.PipeOut1, d3xx.PipeIn1)

	payload := []byte{1, 2, 3, 4}
	n, err := dev.Pipe(d3xx.PipeOut1).Write(payload)
	require.NoError(t, err)
	assert.Equal(4, n)

	buf := make([]byte, 16)
	n, err = dev.Pipe(d3xx.PipeIn1).Read(buf)
	require.NoError(t, err)
	assert.Equal(4, n)
	assert.Equal(payload, buf[:n])

	// A forced failure on the read side surfaces the original
	// error with a single abort on that pipe.
	sim.FailNext(d3xx.PipeIn1, d3xx.ErrIO)
	_, err = dev.Pipe(d3xx.PipeIn1).Read(buf)
	assert.ErrorIs(err, d3xx.ErrIO)
	assert.Equal(1, sim.AbortCount(d3xx.PipeIn1))
}

func TestPipeDirectionGuards(t *testing.T) {
	assert := assert.New(t)
	_, dev := openTestDevice(t)
	buf := make([]byte, 4)

	assert.Panics(func() { _, _ = dev.Pipe(d3xx.PipeIn0).Write(buf) })
	assert.Panics(func() { _, _ = dev.Pipe(d3xx.PipeOut0).Read(buf) })
	assert.Panics(func() { _, _ = dev.Pipe(d3xx.PipeIn0).WriteAsync(buf) })
	assert.Panics(func() { _, _ = dev.Pipe(d3xx.PipeOut0).ReadAsync(buf) })
}

// A failed transfer must abort the pipe exactly once before
// the error is surfaced.
func TestFailedWriteAbortsPipe(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.MirrorPipes(d3xx.PipeOut0, d3xx.PipeIn0)
	sim.FailNext(d3xx.PipeOut0, d3xx.ErrIO)

	out := dev.Pipe(d3xx.PipeOut0)
	n, err := out.Write([]byte{1, 2, 3})
	assert.ErrorIs(err, d3xx.ErrIO)
	assert.Zero(n)
	assert.Equal(1, sim.AbortCount(d3xx.PipeOut0))

	// The pipe is usable again and no further abort happens.
	n, err = out.Write([]byte{4, 5})
	assert.NoError(err)
	assert.Equal(2, n)
	assert.Equal(1, sim.AbortCount(d3xx.PipeOut0))
}

func TestReadTimeoutAbortsPipe(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)

	buf := make([]byte, 8)
	_, err := dev.Pipe(d3xx.PipeIn0).Read(buf)
	assert.ErrorIs(err, d3xx.ErrTimeout)
	assert.Equal(1, sim.AbortCount(d3xx.PipeIn0))
}

func TestExplicitAbort(t *testing.T) {
	sim, dev := openTestDevice(t)
	require.NoError(t, dev.Pipe(d3xx.PipeOut2).Abort())
	assert.Equal(t, 1, sim.AbortCount(d3xx.PipeOut2))
}

func TestPipeTimeouts(t *testing.T) {
	assert := assert.New(t)
	_, dev := openTestDevice(t)
	in := dev.Pipe(d3xx.PipeIn0)

	timeout, err := in.Timeout()
	require.NoError(t, err)
	assert.Equal(d3xx.DefaultPipeTimeout, timeout)

	require.NoError(t, in.SetTimeout(1200*time.Millisecond))
	timeout, err = in.Timeout()
	require.NoError(t, err)
	assert.Equal(1200*time.Millisecond, timeout)

	assert.Panics(func() { _ = in.SetTimeout(-time.Second) })

	// Fractional milliseconds must not truncate silently: half
	// a millisecond flattened to zero would mean wait-forever.
	assert.Panics(func() { _ = in.SetTimeout(500 * time.Microsecond) })
	assert.Panics(func() { _ = in.SetTimeout(1500 * time.Microsecond) })
	timeout, err = in.Timeout()
	require.NoError(t, err)
	assert.Equal(1200*time.Millisecond, timeout)
}

func TestPipeInfo(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.SetPipeInformation(d3xx.PipeIn2, d3xx.RawPipeInformation{
		PipeType:          3,
		PipeID:            0x84,
		MaximumPacketSize: 64,
		Interval:          4,
	})

	info, err := dev.Pipe(d3xx.PipeIn2).Info(0)
	require.NoError(t, err)
	assert.Equal(d3xx.PipeTypeInterrupt, info.Type)
	assert.Equal(d3xx.PipeIn2, info.Pipe)
	assert.Equal(64, info.MaxPacketSize)
	assert.Equal(uint8(4), info.Interval)
}

func TestSetStreamPipes(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)

	pipes := d3xx.StreamPipes(nil).
		WithPipe(d3xx.PipeOut0, 1024).
		WithPipe(d3xx.PipeIn0, 4096)
	require.NoError(t, dev.SetStreamPipes(pipes))

	streams := sim.StreamPipes()
	assert.Equal(uint32(1024), streams[0x02])
	assert.Equal(uint32(4096), streams[0x82])
	assert.Equal(1, sim.StreamClears())

	// Reconfiguring clears everything before applying.
	require.NoError(t, dev.SetStreamPipes(nil))
	assert.Empty(sim.StreamPipes())
	assert.Equal(2, sim.StreamClears())
}
