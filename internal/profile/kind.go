package profile

import "fmt"

// Kind is the persisted type tag of a profile.
type Kind int32

const (
	KindSOCKS Kind = iota
	KindHTTP
	KindShadowsocks
	KindShadowsocksR
	KindVMess
	KindVLESS
	KindTrojan
	KindTrojanGo
	KindChain
)

// Kinds lists every tag in catalog order.
var Kinds = []Kind{
	KindSOCKS, KindHTTP, KindShadowsocks, KindShadowsocksR,
	KindVMess, KindVLESS, KindTrojan, KindTrojanGo, KindChain,
}

func (k Kind) Valid() bool {
	return k >= KindSOCKS && k <= KindChain
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Undefined type %d", int32(k))
	}
	return catalog[k].name
}

// ParseKind validates a raw tag read from storage or the wire.
func ParseKind(v int32) (Kind, error) {
	k := Kind(v)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: undefined type %d", ErrInvalidArgument, v)
	}
	return k, nil
}

// rules is one row of the capability matrix. A nil query means the
// query is not defined for that kind.
type rules struct {
	name    string
	surface Surface
	newBean func() Bean
	uri     func(b Bean) string

	needExternal func(b Bean, s Settings) bool
	coreMux      func(b Bean, s Settings) bool
	xrayMux      func(b Bean, s Settings) bool
}

var catalog = [...]rules{
	KindSOCKS: {
		name:         "SOCKS5",
		surface:      SurfaceSOCKS,
		newBean:      func() Bean { return &SOCKSBean{} },
		uri:          func(b Bean) string { return b.(*SOCKSBean).ToURI() },
		needExternal: never,
		coreMux:      muxForAll,
	},
	KindHTTP: {
		name:         "HTTP",
		surface:      SurfaceHTTP,
		newBean:      func() Bean { return &HTTPBean{} },
		uri:          func(b Bean) string { return b.(*HTTPBean).ToURI() },
		needExternal: never,
		coreMux:      muxForAll,
	},
	KindShadowsocks: {
		name:         "Shadowsocks",
		surface:      SurfaceShadowsocks,
		newBean:      func() Bean { return &ShadowsocksBean{} },
		uri:          func(b Bean) string { return b.(*ShadowsocksBean).ToURI() },
		needExternal: useExternalShadowsocks,
		coreMux:      muxForAll,
	},
	KindShadowsocksR: {
		name:         "ShadowsocksR",
		surface:      SurfaceShadowsocksR,
		newBean:      func() Bean { return &ShadowsocksRBean{} },
		uri:          func(b Bean) string { return b.(*ShadowsocksRBean).ToURI() },
		needExternal: always,
		coreMux:      muxForAll,
	},
	KindVMess: {
		name:         "VMess",
		surface:      SurfaceVMess,
		newBean:      func() Bean { return &VMessBean{} },
		uri:          func(b Bean) string { return b.(*VMessBean).ToURI(true) },
		needExternal: never,
		coreMux: func(b Bean, _ Settings) bool {
			return isStreamNetwork(b.(*VMessBean).Type)
		},
	},
	KindVLESS: {
		name:         "VLESS",
		surface:      SurfaceVLESS,
		newBean:      func() Bean { return &VLESSBean{} },
		uri:          func(b Bean) string { return b.(*VLESSBean).ToURI(true) },
		needExternal: func(b Bean, _ Settings) bool { return useXray(b) },
		coreMux:      func(b Bean, _ Settings) bool { return !useXray(b) },
		xrayMux: func(b Bean, _ Settings) bool {
			return isStreamNetwork(b.(*VLESSBean).Type)
		},
	},
	KindTrojan: {
		name:         "Trojan",
		surface:      SurfaceTrojan,
		newBean:      func() Bean { return &TrojanBean{} },
		uri:          func(b Bean) string { return b.(*TrojanBean).ToURI() },
		needExternal: func(b Bean, _ Settings) bool { return useXray(b) },
		coreMux:      func(b Bean, s Settings) bool { return s.EnableMuxForAll && !useXray(b) },
		xrayMux:      muxForAll,
	},
	KindTrojanGo: {
		name:         "Trojan-Go",
		surface:      SurfaceTrojanGo,
		newBean:      func() Bean { return &TrojanGoBean{} },
		uri:          func(b Bean) string { return b.(*TrojanGoBean).ToURI() },
		needExternal: always,
		coreMux:      never,
	},
	KindChain: {
		name:         DefaultChainLabel,
		surface:      SurfaceChain,
		newBean:      func() Bean { return &ChainBean{} },
		needExternal: never,
	},
}

func rowFor(k Kind) (*rules, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: undefined type %d", ErrInvalidArgument, int32(k))
	}
	return &catalog[k], nil
}

func never(Bean, Settings) bool  { return false }
func always(Bean, Settings) bool { return true }

func muxForAll(_ Bean, s Settings) bool { return s.EnableMuxForAll }
