package d3xx

import "fmt"

// Pipe identifies one unidirectional endpoint of a FT60x
// device. The device exposes four readable ("in") pipes and
// four writable ("out") pipes; the identifier byte is the raw
// endpoint address expected by the driver.
type Pipe uint8

const (
	PipeIn0 Pipe = 0x82
	PipeIn1 Pipe = 0x83
	PipeIn2 Pipe = 0x84
	PipeIn3 Pipe = 0x85

	PipeOut0 Pipe = 0x02
	PipeOut1 Pipe = 0x03
	PipeOut2 Pipe = 0x04
	PipeOut3 Pipe = 0x05
)

// PipeFromByte converts a raw endpoint address to a Pipe. It
// reports false for addresses outside the fixed set of eight.
func PipeFromByte(value uint8) (Pipe, bool) {
	switch p := Pipe(value); p {
	case PipeIn0, PipeIn1, PipeIn2, PipeIn3,
		PipeOut0, PipeOut1, PipeOut2, PipeOut3:
		return p, true
	default:
		return 0, false
	}
}

// IsIn reports whether the pipe is readable.
func (p Pipe) IsIn() bool { return !p.IsOut() }

// IsOut reports whether the pipe is writable.
func (p Pipe) IsOut() bool { return uint8(p)&0x80 == 0 }

func (p Pipe) String() string {
	index := uint8(p) & 0x0f
	if p.IsIn() {
		return fmt.Sprintf("In%d", index-2)
	}
	return fmt.Sprintf("Out%d", index-2)
}

// PipeType is the USB transfer type of a pipe.
type PipeType uint8

const (
	PipeTypeControl PipeType = iota
	PipeTypeIsochronous
	PipeTypeBulk
	PipeTypeInterrupt
)

func (t PipeType) String() string {
	switch t {
	case PipeTypeControl:
		return "control"
	case PipeTypeIsochronous:
		return "isochronous"
	case PipeTypeBulk:
		return "bulk"
	case PipeTypeInterrupt:
		return "interrupt"
	default:
		return fmt.Sprintf("pipe type %d", uint8(t))
	}
}

// PipeInfo describes one pipe of the active interface, as
// reported by the pipe information record of the driver.
type PipeInfo struct {
	Type          PipeType
	Pipe          Pipe
	MaxPacketSize int
	Interval      uint8
}

func decodePipeInfo(raw RawPipeInformation) (PipeInfo, error) {
	if raw.PipeType < 0 || raw.PipeType > int32(PipeTypeInterrupt) {
		return PipeInfo{}, ErrOther
	}
	pipe, ok := PipeFromByte(raw.PipeID)
	if !ok {
		return PipeInfo{}, ErrOther
	}
	return PipeInfo{
		Type:          PipeType(raw.PipeType),
		Pipe:          pipe,
		MaxPacketSize: int(raw.MaximumPacketSize),
		Interval:      raw.Interval,
	}, nil
}

// StreamPipes is a set of pipes configured for stream
// transfers, mapping each pipe to its stream size in bytes.
// Adding the same pipe twice keeps the latest size.
type StreamPipes map[Pipe]int

// WithPipe returns the set extended with the given pipe. The
// receiver is updated in place when non-nil; a nil receiver
// allocates, so chained construction reads naturally.
func (s StreamPipes) WithPipe(pipe Pipe, streamSize int) StreamPipes {
	if s == nil {
		s = make(StreamPipes)
	}
	s[pipe] = streamSize
	return s
}
