package profile

import "fmt"

// Profile is one persisted proxy configuration. It holds exactly one
// bean; the type tag always follows the bean installed by SetBean.
type Profile struct {
	ID        int64
	GroupID   int64
	UserOrder int64
	Tx        int64
	Rx        int64

	// Dirty marks unsaved in-memory edits. Not persisted.
	Dirty bool
	// Stats is owned by the traffic collector. Not persisted, not serialized.
	Stats *TrafficStats

	kind Kind
	bean Bean
}

type TrafficStats struct {
	TxRate  int64
	RxRate  int64
	TxTotal int64
	RxTotal int64
}

// New returns an unsaved profile in groupID holding bean.
func New(groupID int64, bean Bean) *Profile {
	p := &Profile{GroupID: groupID}
	p.SetBean(bean)
	return p
}

// Type returns the type tag.
func (p *Profile) Type() Kind {
	return p.kind
}

// SetBean switches the profile to bean's kind. Any previous bean is dropped.
func (p *Profile) SetBean(bean Bean) {
	if bean == nil {
		p.bean = nil
		return
	}
	p.kind = bean.Kind()
	p.bean = bean
}

// Bean returns the active bean. It fails with ErrInvalidState when the
// slot addressed by the type tag is empty.
func (p *Profile) Bean() (Bean, error) {
	if !p.kind.Valid() {
		return nil, fmt.Errorf("%w: undefined type %d", ErrInvalidArgument, int32(p.kind))
	}
	if p.bean == nil || p.bean.Kind() != p.kind {
		return nil, fmt.Errorf("%w: null %s bean on profile %d", ErrInvalidState, p.kind, p.ID)
	}
	return p.bean, nil
}

func requireAs[T Bean](p *Profile) (T, error) {
	var zero T
	b, err := p.Bean()
	if err != nil {
		return zero, err
	}
	t, ok := b.(T)
	if !ok {
		return zero, fmt.Errorf("%w: profile %d holds %s, want %s", ErrTypeMismatch, p.ID, p.kind, zero.Kind())
	}
	return t, nil
}

func (p *Profile) RequireSOCKS() (*SOCKSBean, error)       { return requireAs[*SOCKSBean](p) }
func (p *Profile) RequireHTTP() (*HTTPBean, error)         { return requireAs[*HTTPBean](p) }
func (p *Profile) RequireSS() (*ShadowsocksBean, error)    { return requireAs[*ShadowsocksBean](p) }
func (p *Profile) RequireSSR() (*ShadowsocksRBean, error)  { return requireAs[*ShadowsocksRBean](p) }
func (p *Profile) RequireVMess() (*VMessBean, error)       { return requireAs[*VMessBean](p) }
func (p *Profile) RequireVLESS() (*VLESSBean, error)       { return requireAs[*VLESSBean](p) }
func (p *Profile) RequireTrojan() (*TrojanBean, error)     { return requireAs[*TrojanBean](p) }
func (p *Profile) RequireTrojanGo() (*TrojanGoBean, error) { return requireAs[*TrojanGoBean](p) }
func (p *Profile) RequireChain() (*ChainBean, error)       { return requireAs[*ChainBean](p) }

// TypeLabel is the human readable protocol name. HTTP reports HTTPS when
// TLS is on; chains use the configured label.
func (p *Profile) TypeLabel(s Settings) (string, error) {
	switch p.kind {
	case KindHTTP:
		b, err := p.RequireHTTP()
		if err != nil {
			return "", err
		}
		if b.TLS {
			return "HTTPS", nil
		}
		return "HTTP", nil
	case KindChain:
		if s.ChainLabel != "" {
			return s.ChainLabel, nil
		}
		return DefaultChainLabel, nil
	}
	row, err := rowFor(p.kind)
	if err != nil {
		return "", err
	}
	return row.name, nil
}

func (p *Profile) DisplayName() (string, error) {
	b, err := p.Bean()
	if err != nil {
		return "", err
	}
	return b.DisplayName(), nil
}
