package profile

import (
	"encoding/json"
	"fmt"
)

// EncodeBean serializes a bean payload. The tag is not part of the
// payload; DecodeBean needs it to pick the concrete type.
func EncodeBean(b Bean) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil bean", ErrInvalidState)
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode %s bean: %w", b.Kind(), err)
	}
	return data, nil
}

// DecodeBean rebuilds the bean of kind k from data.
func DecodeBean(data []byte, k Kind) (Bean, error) {
	row, err := rowFor(k)
	if err != nil {
		return nil, err
	}
	b := row.newBean()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("decode %s bean: %w", k, err)
	}
	return b, nil
}

// EncodeBean serializes the active bean.
func (p *Profile) EncodeBean() ([]byte, error) {
	b, err := p.Bean()
	if err != nil {
		return nil, err
	}
	return EncodeBean(b)
}
