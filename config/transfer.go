package config

// FifoClock is the FIFO clock speed.
type FifoClock uint8

const (
	FifoClock100MHz FifoClock = iota
	FifoClock66MHz
)

// FifoMode is the FIFO bus protocol of the chip. Mode600 is
// the native FT600 protocol, Mode245 emulates FT245 FIFOs.
type FifoMode uint8

const (
	FifoMode245 FifoMode = iota
	FifoMode600
)

// ChannelConfig is the pipe channel layout. A channel is a
// pair of pipes, one IN and one OUT, except for the single
// pipe layouts.
type ChannelConfig uint8

const (
	ChannelsFour ChannelConfig = iota
	ChannelsTwo
	ChannelsOne
	ChannelOneOutPipe
	ChannelOneInPipe
)

// DataTransfer is the FIFO and channel section of the
// configuration.
type DataTransfer struct {
	fifoClock FifoClock
	fifoMode  FifoMode
	channels  ChannelConfig
}

// FifoClock returns the FIFO clock speed.
func (t DataTransfer) FifoClock() FifoClock { return t.fifoClock }

// FifoMode returns the FIFO bus protocol.
func (t DataTransfer) FifoMode() FifoMode { return t.fifoMode }

// ChannelConfig returns the pipe channel layout.
func (t DataTransfer) ChannelConfig() ChannelConfig { return t.channels }

func decodeDataTransfer(clock, mode, channels uint8) (DataTransfer, error) {
	if clock > uint8(FifoClock66MHz) {
		return DataTransfer{}, errOutOfRange("FIFOClock", uint64(clock))
	}
	if mode > uint8(FifoMode600) {
		return DataTransfer{}, errOutOfRange("FIFOMode", uint64(mode))
	}
	if channels > uint8(ChannelOneInPipe) {
		return DataTransfer{}, errOutOfRange("ChannelConfig", uint64(channels))
	}
	return DataTransfer{
		fifoClock: FifoClock(clock),
		fifoMode:  FifoMode(mode),
		channels:  ChannelConfig(channels),
	}, nil
}
