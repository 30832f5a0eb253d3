package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"
)

// bytesPerFrame is one stereo frame of 16-bit PCM, the only layout go-mp3 emits.
const bytesPerFrame = 4

// mp3Stream adapts go-mp3 to beep.StreamSeekCloser.
type mp3Stream struct {
	dec *mp3.Decoder
	src io.Closer
	buf []byte
	err error
}

func decodeMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	dec, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(dec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	return &mp3Stream{dec: dec, src: rc}, format, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	need := len(samples) * bytesPerFrame
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	read, err := io.ReadFull(s.dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}
	frames := read / bytesPerFrame
	if frames == 0 {
		return 0, false
	}
	for i := range frames {
		off := i * bytesPerFrame
		l := int16(binary.LittleEndian.Uint16(buf[off:]))   //nolint:gosec // pcm sample
		r := int16(binary.LittleEndian.Uint16(buf[off+2:])) //nolint:gosec // pcm sample
		samples[i][0] = float64(l) / 32768
		samples[i][1] = float64(r) / 32768
	}
	return frames, true
}

func (s *mp3Stream) Err() error { return s.err }

func (s *mp3Stream) Len() int {
	return max(int(s.dec.SampleCount()), 0)
}

func (s *mp3Stream) Position() int { return int(s.dec.SamplePosition()) }

func (s *mp3Stream) Seek(p int) error {
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *mp3Stream) Close() error { return s.src.Close() }
