package profile

import "strings"

// Bean is the protocol-specific parameter set of a profile.
type Bean interface {
	Kind() Kind
	Address() string
	Port() int
	DisplayName() string
}

// ServerBean carries the fields every transport variant shares.
type ServerBean struct {
	Name          string `json:"name,omitempty"`
	ServerAddress string `json:"serverAddress"`
	ServerPort    int    `json:"serverPort"`
}

func (b *ServerBean) Address() string { return b.ServerAddress }
func (b *ServerBean) Port() int       { return b.ServerPort }

// DisplayName falls back to the formatted address when the name is blank.
func (b *ServerBean) DisplayName() string {
	if strings.TrimSpace(b.Name) != "" {
		return b.Name
	}
	return FormatAddress(b.ServerAddress, b.ServerPort)
}

type SOCKSBean struct {
	ServerBean
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type HTTPBean struct {
	ServerBean
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	TLS      bool   `json:"tls,omitempty"`
	SNI      string `json:"sni,omitempty"`
}

type ShadowsocksBean struct {
	ServerBean
	Method   string `json:"method"`
	Password string `json:"password"`
	Plugin   string `json:"plugin,omitempty"` // "name;opt=value;..."
}

type ShadowsocksRBean struct {
	ServerBean
	Method        string `json:"method"`
	Password      string `json:"password"`
	Protocol      string `json:"protocol"`
	ProtocolParam string `json:"protocolParam,omitempty"`
	Obfs          string `json:"obfs"`
	ObfsParam     string `json:"obfsParam,omitempty"`
}

// StandardV2RayBean is the shared layout of VMess and VLESS.
type StandardV2RayBean struct {
	ServerBean
	UUID        string   `json:"uuid"`
	Encryption  string   `json:"encryption,omitempty"`
	Type        string   `json:"type,omitempty"` // network: tcp, kcp, ws, http, grpc
	Host        string   `json:"host,omitempty"`
	Path        string   `json:"path,omitempty"`
	HeaderType  string   `json:"headerType,omitempty"`
	ServiceName string   `json:"serviceName,omitempty"`
	Security    string   `json:"security,omitempty"` // none, tls, xtls, reality
	SNI         string   `json:"sni,omitempty"`
	ALPN        []string `json:"alpn,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	PublicKey   string   `json:"publicKey,omitempty"` // reality
	ShortID     string   `json:"shortId,omitempty"`
	SpiderX     string   `json:"spiderX,omitempty"`
	Insecure    bool     `json:"allowInsecure,omitempty"`
}

func (b *StandardV2RayBean) standard() *StandardV2RayBean { return b }

type VMessBean struct {
	StandardV2RayBean
	AlterID int `json:"alterId,omitempty"`
}

type VLESSBean struct {
	StandardV2RayBean
	Flow string `json:"flow,omitempty"`
}

type TrojanBean struct {
	ServerBean
	Password string   `json:"password"`
	Security string   `json:"security,omitempty"` // tls, xtls, none
	SNI      string   `json:"sni,omitempty"`
	ALPN     []string `json:"alpn,omitempty"`
	Flow     string   `json:"flow,omitempty"`
	Insecure bool     `json:"allowInsecure,omitempty"`
}

type TrojanGoBean struct {
	ServerBean
	Password   string `json:"password"`
	SNI        string `json:"sni,omitempty"`
	Type       string `json:"type,omitempty"` // original, ws
	Host       string `json:"host,omitempty"`
	Path       string `json:"path,omitempty"`
	Encryption string `json:"encryption,omitempty"` // none, ss;method:password
	Plugin     string `json:"plugin,omitempty"`
	Insecure   bool   `json:"allowInsecure,omitempty"`
}

// ChainBean routes through the listed profiles in order.
// It has no endpoint of its own.
type ChainBean struct {
	Name    string  `json:"name,omitempty"`
	Proxies []int64 `json:"proxies"`
}

func (b *ChainBean) Address() string { return "" }
func (b *ChainBean) Port() int       { return 0 }

func (b *ChainBean) DisplayName() string {
	if strings.TrimSpace(b.Name) != "" {
		return b.Name
	}
	return FormatAddress("", 0)
}

func (*SOCKSBean) Kind() Kind        { return KindSOCKS }
func (*HTTPBean) Kind() Kind         { return KindHTTP }
func (*ShadowsocksBean) Kind() Kind  { return KindShadowsocks }
func (*ShadowsocksRBean) Kind() Kind { return KindShadowsocksR }
func (*VMessBean) Kind() Kind        { return KindVMess }
func (*VLESSBean) Kind() Kind        { return KindVLESS }
func (*TrojanBean) Kind() Kind       { return KindTrojan }
func (*TrojanGoBean) Kind() Kind     { return KindTrojanGo }
func (*ChainBean) Kind() Kind        { return KindChain }
