package media

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Matroska/WebM element ids relevant to the duration probe.
const (
	idEBML          = 0x1A45DFA3
	idSegment       = 0x18538067
	idInfo          = 0x1549A966
	idTimecodeScale = 0x2AD7B1
	idDuration      = 0x4489
)

// 1ms, the Matroska default when the Info element omits TimecodeScale.
const defaultTimecodeScale = 1_000_000

var ErrNoDuration = errors.New("webm: no duration in container metadata")

// ProbeDuration reads the duration a recorder wrote into the WebM container
// metadata. This is the decoded length of the artifact, which corrects for
// codec startup and buffering that wall-clock timing would include.
func ProbeDuration(data []byte) (time.Duration, error) {
	header, rest, err := nextElement(data)
	if err != nil {
		return 0, fmt.Errorf("webm: %w", err)
	}
	if header.id != idEBML {
		return 0, errors.New("webm: not an EBML stream")
	}

	segment, err := findElement(rest, idSegment)
	if err != nil {
		return 0, fmt.Errorf("webm: %w", err)
	}

	info, err := findElement(segment, idInfo)
	if err != nil {
		return 0, fmt.Errorf("webm: %w", err)
	}

	scale := uint64(defaultTimecodeScale)
	durationTicks := math.NaN()

	for len(info) > 0 {
		el, next, err := nextElement(info)
		if err != nil {
			return 0, fmt.Errorf("webm: %w", err)
		}
		switch el.id {
		case idTimecodeScale:
			scale = parseUint(el.payload)
		case idDuration:
			durationTicks, err = parseFloat(el.payload)
			if err != nil {
				return 0, fmt.Errorf("webm: %w", err)
			}
		}
		info = next
	}

	if math.IsNaN(durationTicks) || durationTicks <= 0 {
		return 0, ErrNoDuration
	}

	return time.Duration(durationTicks * float64(scale)), nil
}

type element struct {
	id      uint64
	payload []byte
}

// nextElement decodes the element at the front of data and returns it along
// with the remaining sibling bytes. An unknown-size element (all size bits
// set) swallows everything to the end of data, which is how live recorders
// commonly emit the Segment.
func nextElement(data []byte) (element, []byte, error) {
	id, n, err := readVarint(data, false)
	if err != nil {
		return element{}, nil, fmt.Errorf("element id: %w", err)
	}
	data = data[n:]

	size, n, err := readVarint(data, true)
	if err != nil {
		return element{}, nil, fmt.Errorf("element size: %w", err)
	}
	unknownSize := size == maxVarint(n)
	data = data[n:]

	if unknownSize || size > uint64(len(data)) {
		return element{id: id, payload: data}, nil, nil
	}
	return element{id: id, payload: data[:size]}, data[size:], nil
}

// findElement scans sibling elements for the given id and returns its payload.
func findElement(data []byte, id uint64) ([]byte, error) {
	for len(data) > 0 {
		el, next, err := nextElement(data)
		if err != nil {
			return nil, err
		}
		if el.id == id {
			return el.payload, nil
		}
		if next == nil {
			break
		}
		data = next
	}
	return nil, fmt.Errorf("element %#x not found", id)
}

// readVarint decodes one EBML variable-length integer. Element ids keep the
// length-marker bit (mask=false); sizes strip it (mask=true).
func readVarint(data []byte, mask bool) (uint64, int, error) {
	if len(data) == 0 {
		return 0, 0, errors.New("truncated varint")
	}

	first := data[0]
	if first == 0 {
		return 0, 0, errors.New("invalid varint prefix")
	}

	length := 1
	for marker := byte(0x80); first&marker == 0; marker >>= 1 {
		length++
	}
	if length > 8 || length > len(data) {
		return 0, 0, errors.New("truncated varint")
	}

	value := uint64(first)
	if mask {
		value &= (1 << (8 - length)) - 1
	}
	for i := 1; i < length; i++ {
		value = value<<8 | uint64(data[i])
	}
	return value, length, nil
}

// maxVarint is the all-ones payload for a varint of the given byte length,
// the EBML "unknown size" sentinel.
func maxVarint(length int) uint64 {
	return 1<<(7*length) - 1
}

func parseUint(payload []byte) uint64 {
	var v uint64
	for _, b := range payload {
		v = v<<8 | uint64(b)
	}
	return v
}

func parseFloat(payload []byte) (float64, error) {
	switch len(payload) {
	case 4:
		return float64(math.Float32frombits(uint32(parseUint(payload)))), nil
	case 8:
		return math.Float64frombits(parseUint(payload)), nil
	default:
		return 0, fmt.Errorf("float element has %d bytes", len(payload))
	}
}
