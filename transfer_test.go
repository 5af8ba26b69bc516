package d3xx_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftlab/d3xx"
)

func TestAsyncWrite(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.MirrorPipes(d3xx.PipeOut0, d3xx.PipeIn0)

	transfer, err := dev.Pipe(d3xx.PipeOut0).WriteAsync([]byte{9, 8, 7})
	require.NoError(t, err)
	defer transfer.Close()

	// Nothing completed yet.
	n, done, err := transfer.Poll()
	assert.False(done)
	assert.Zero(n)
	assert.NoError(err)

	sim.CompleteTransfers()

	n, done, err = transfer.Poll()
	assert.True(done)
	assert.Equal(3, n)
	assert.NoError(err)

	// The result is latched after the terminal poll.
	n, done, err = transfer.Poll()
	assert.True(done)
	assert.Equal(3, n)
	assert.NoError(err)

	// The write landed on the mirrored pipe.
	buf := make([]byte, 8)
	n, err = dev.Pipe(d3xx.PipeIn0).Read(buf)
	require.NoError(t, err)
	assert.Equal([]byte{9, 8, 7}, buf[:n])
}

func TestAsyncRead(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.Push(d3xx.PipeIn1, []byte{5, 6, 7, 8})

	buf := make([]byte, 16)
	transfer, err := dev.Pipe(d3xx.PipeIn1).ReadAsync(buf)
	require.NoError(t, err)
	defer transfer.Close()

	_, done, err := transfer.Poll()
	assert.False(done)
	assert.NoError(err)

	sim.CompleteTransfers()

	n, done, err := transfer.Poll()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(4, n)
	assert.Equal([]byte{5, 6, 7, 8}, buf[:n])
}

func TestAsyncInitiateFailure(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)
	sim.FailNext(d3xx.PipeOut0, d3xx.ErrBusy)

	transfer, err := dev.Pipe(d3xx.PipeOut0).WriteAsync([]byte{1})
	assert.Nil(transfer)
	assert.ErrorIs(err, d3xx.ErrBusy)
	assert.Equal(1, sim.AbortCount(d3xx.PipeOut0))
}

func TestWaitCompletes(t *testing.T) {
	assert := assert.New(t)
	sim, dev := openTestDevice(t)

	transfer, err := dev.Pipe(d3xx.PipeOut0).WriteAsync([]byte{1, 2, 3})
	require.NoError(t, err)

	go func() {
		time.Sleep(5 * time.Millisecond)
		sim.CompleteTransfers()
	}()

	n, err := transfer.Wait(context.Background())
	assert.NoError(err)
	assert.Equal(3, n)
}

func TestWaitContextCancel(t *testing.T) {
	assert := assert.New(t)
	_, dev := openTestDevice(t)

	transfer, err := dev.Pipe(d3xx.PipeOut0).WriteAsync([]byte{1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := transfer.Wait(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.Zero(n)
}

func TestAbortTerminatesTransfer(t *testing.T) {
	assert := assert.New(t)
	_, dev := openTestDevice(t)

	transfer, err := dev.Pipe(d3xx.PipeOut0).WriteAsync([]byte{1, 2})
	require.NoError(t, err)
	require.NoError(t, dev.Pipe(d3xx.PipeOut0).Abort())

	n, done, err := transfer.Poll()
	assert.True(done)
	assert.Zero(n)
	assert.ErrorIs(err, d3xx.ErrOperationAborted)
}

func TestTransferCloseIdempotent(t *testing.T) {
	assert := assert.New(t)
	_, dev := openTestDevice(t)

	transfer, err := dev.Pipe(d3xx.PipeOut0).WriteAsync([]byte{1})
	require.NoError(t, err)
	assert.NoError(transfer.Close())
	assert.NoError(transfer.Close())
}
