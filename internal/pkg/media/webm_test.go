package media

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ebmlElement encodes one element with a minimal one-byte size field.
func ebmlElement(id uint64, payload []byte) []byte {
	var idBytes []byte
	for shift := 24; shift >= 0; shift -= 8 {
		b := byte(id >> shift)
		if b == 0 && len(idBytes) == 0 {
			continue
		}
		idBytes = append(idBytes, b)
	}
	out := append([]byte{}, idBytes...)
	out = append(out, 0x80|byte(len(payload)))
	return append(out, payload...)
}

func float64Bytes(v float64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func buildWebM(infoChildren ...[]byte) []byte {
	var info []byte
	for _, child := range infoChildren {
		info = append(info, child...)
	}
	segment := ebmlElement(idInfo, info)
	out := ebmlElement(idEBML, nil)
	return append(out, ebmlElement(idSegment, segment)...)
}

func TestProbeDuration(t *testing.T) {
	data := buildWebM(
		ebmlElement(idTimecodeScale, []byte{0x0F, 0x42, 0x40}), // 1_000_000
		ebmlElement(idDuration, float64Bytes(12500)),
	)

	d, err := ProbeDuration(data)
	require.NoError(t, err)
	assert.Equal(t, 12500*time.Millisecond, d)
}

func TestProbeDurationDefaultTimecodeScale(t *testing.T) {
	data := buildWebM(ebmlElement(idDuration, float64Bytes(2000)))

	d, err := ProbeDuration(data)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)
}

func TestProbeDurationUnknownSizeSegment(t *testing.T) {
	// Live recorders emit the Segment with the unknown-size sentinel and let
	// it run to the end of the stream.
	info := ebmlElement(idInfo, ebmlElement(idDuration, float64Bytes(500)))

	data := ebmlElement(idEBML, nil)
	data = append(data, 0x18, 0x53, 0x80, 0x67) // Segment id
	data = append(data, 0xFF)                   // unknown size
	data = append(data, info...)

	d, err := ProbeDuration(data)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, d)
}

func TestProbeDurationMissing(t *testing.T) {
	data := buildWebM(ebmlElement(idTimecodeScale, []byte{0x0F, 0x42, 0x40}))

	_, err := ProbeDuration(data)
	assert.ErrorIs(t, err, ErrNoDuration)
}

func TestProbeDurationNotEBML(t *testing.T) {
	_, err := ProbeDuration([]byte{0x42, 0x42, 0x42, 0x42})
	assert.Error(t, err)
}

func TestProbeDurationTruncated(t *testing.T) {
	data := buildWebM(ebmlElement(idDuration, float64Bytes(1000)))

	_, err := ProbeDuration(data[:len(data)-3])
	assert.Error(t, err)
}
