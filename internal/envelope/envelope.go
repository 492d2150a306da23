// Package envelope is the fixed-layout binary form of a profile used to
// hand a full record across a process boundary.
//
// Layout (big endian):
//
//	id int64 | groupId int64 | type int32 | userOrder int64 |
//	tx int64 | rx int64 | dirty uint8 | payloadLen int32 | payload
package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"proxyprofile/internal/profile"
)

const HeaderSize = 8 + 8 + 4 + 8 + 8 + 8 + 1 + 4

// MaxPayload bounds the bean payload accepted by Decode.
const MaxPayload = 16 << 20

var (
	ErrTruncated       = errors.New("envelope: truncated data")
	ErrInvalidLength   = errors.New("envelope: invalid payload length")
	ErrPayloadTooLarge = errors.New("envelope: payload too large")
	ErrTrailingData    = errors.New("envelope: trailing data")
)

// Encode writes p to w.
func Encode(w io.Writer, p *profile.Profile) error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", profile.ErrInvalidState)
	}
	payload, err := p.EncodeBean()
	if err != nil {
		return err
	}
	if len(payload) > MaxPayload {
		return ErrPayloadTooLarge
	}

	buf := make([]byte, HeaderSize, HeaderSize+len(payload))
	binary.BigEndian.PutUint64(buf[0:8], uint64(p.ID))
	binary.BigEndian.PutUint64(buf[8:16], uint64(p.GroupID))
	binary.BigEndian.PutUint32(buf[16:20], uint32(p.Type()))
	binary.BigEndian.PutUint64(buf[20:28], uint64(p.UserOrder))
	binary.BigEndian.PutUint64(buf[28:36], uint64(p.Tx))
	binary.BigEndian.PutUint64(buf[36:44], uint64(p.Rx))
	if p.Dirty {
		buf[44] = 1
	}
	binary.BigEndian.PutUint32(buf[45:49], uint32(len(payload)))
	buf = append(buf, payload...)

	_, err = w.Write(buf)
	return err
}

// Decode reads a single profile from r. The type tag is validated before
// the payload is touched; an unknown tag yields no record. A reader that
// ends before the first header byte returns io.EOF.
func Decode(r io.Reader) (*profile.Profile, error) {
	head := make([]byte, HeaderSize)
	if n, err := io.ReadFull(r, head); err != nil {
		if n == 0 && err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	kind, err := profile.ParseKind(int32(binary.BigEndian.Uint32(head[16:20])))
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	payloadLen := int32(binary.BigEndian.Uint32(head[45:49]))
	if payloadLen < 0 {
		return nil, ErrInvalidLength
	}
	if payloadLen > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	bean, err := profile.DecodeBean(payload, kind)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	p := &profile.Profile{
		ID:        int64(binary.BigEndian.Uint64(head[0:8])),
		GroupID:   int64(binary.BigEndian.Uint64(head[8:16])),
		UserOrder: int64(binary.BigEndian.Uint64(head[20:28])),
		Tx:        int64(binary.BigEndian.Uint64(head[28:36])),
		Rx:        int64(binary.BigEndian.Uint64(head[36:44])),
		Dirty:     head[44] > 0,
	}
	p.SetBean(bean)
	return p, nil
}

func Marshal(p *profile.Profile) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one profile from data.
func Unmarshal(data []byte) (*profile.Profile, error) {
	r := bytes.NewReader(data)
	p, err := Decode(r)
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrTruncated)
	}
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, ErrTrailingData
	}
	return p, nil
}
