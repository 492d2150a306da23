package profile

import (
	"fmt"
	"strings"

	"proxyprofile/internal/logger"
)

// builtinShadowsocksMethods are the ciphers the embedded core implements.
var builtinShadowsocksMethods = map[string]struct{}{
	"none":                    {},
	"aes-128-gcm":             {},
	"aes-256-gcm":             {},
	"chacha20-poly1305":       {},
	"chacha20-ietf-poly1305":  {},
	"xchacha20-poly1305":      {},
	"xchacha20-ietf-poly1305": {},
}

// NeedExternal reports whether the profile must run in an external process.
func (p *Profile) NeedExternal(s Settings) (bool, error) {
	row, b, err := p.dispatch()
	if err != nil {
		return false, err
	}
	return row.needExternal(b, s), nil
}

// NeedCoreMux reports whether the built-in multiplexer applies.
func (p *Profile) NeedCoreMux(s Settings) (bool, error) {
	row, b, err := p.dispatch()
	if err != nil {
		return false, err
	}
	if row.coreMux == nil {
		return false, fmt.Errorf("%w: core mux is not defined for %s", ErrUnsupportedOperation, p.kind)
	}
	return row.coreMux(b, s), nil
}

// NeedXrayMux reports whether the accelerated transport's multiplexer applies.
// Only VLESS and Trojan define it.
func (p *Profile) NeedXrayMux(s Settings) (bool, error) {
	row, b, err := p.dispatch()
	if err != nil {
		return false, err
	}
	if row.xrayMux == nil {
		return false, fmt.Errorf("%w: xray mux is not defined for %s", ErrUnsupportedOperation, p.kind)
	}
	return row.xrayMux(b, s), nil
}

// NeedMux applies the multiplexer rule of whichever core carries the
// profile: the xray rule when UseXray holds, the core rule otherwise.
func (p *Profile) NeedMux(s Settings) (bool, error) {
	xray, err := p.UseXray()
	if err != nil {
		return false, err
	}
	if xray {
		return p.NeedXrayMux(s)
	}
	return p.NeedCoreMux(s)
}

// UseXray reports whether the xray-class transport is required.
func (p *Profile) UseXray() (bool, error) {
	_, b, err := p.dispatch()
	if err != nil {
		return false, err
	}
	return useXray(b), nil
}

// UseExternalShadowsocks is false for anything but Shadowsocks.
func (p *Profile) UseExternalShadowsocks(s Settings) (bool, error) {
	if p.kind != KindShadowsocks {
		return false, nil
	}
	_, b, err := p.dispatch()
	if err != nil {
		return false, err
	}
	return useExternalShadowsocks(b, s), nil
}

// IsV2RayNetworkTCP reports whether a VMess or VLESS transport is stream oriented.
func (p *Profile) IsV2RayNetworkTCP() (bool, error) {
	_, b, err := p.dispatch()
	if err != nil {
		return false, err
	}
	v, ok := b.(interface{ standard() *StandardV2RayBean })
	if !ok {
		return false, fmt.Errorf("%w: %s has no v2ray network", ErrUnsupportedOperation, p.kind)
	}
	return isStreamNetwork(v.standard().Type), nil
}

func (p *Profile) dispatch() (*rules, Bean, error) {
	row, err := rowFor(p.kind)
	if err != nil {
		return nil, nil, err
	}
	b, err := p.Bean()
	if err != nil {
		return nil, nil, err
	}
	return row, b, nil
}

func isStreamNetwork(network string) bool {
	switch network {
	case "tcp", "ws", "http":
		return true
	}
	return false
}

func useXray(b Bean) bool {
	switch bean := b.(type) {
	case *VLESSBean:
		if bean.Security != "xtls" {
			return false
		}
		if bean.Type != "tcp" {
			return false
		}
		if strings.TrimSpace(bean.HeaderType) != "" && bean.HeaderType != "none" {
			return false
		}
		return true
	case *TrojanBean:
		return bean.Security == "xtls"
	}
	return false
}

func useExternalShadowsocks(b Bean, s Settings) bool {
	bean, ok := b.(*ShadowsocksBean)
	if !ok {
		return false
	}
	if s.ForceShadowsocksRust {
		return true
	}
	if strings.TrimSpace(bean.Plugin) != "" {
		logger.Log.Debugf("Requiring plugin %s", bean.Plugin)
		return true
	}
	_, builtin := builtinShadowsocksMethods[bean.Method]
	return !builtin
}
