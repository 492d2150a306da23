package profile

import (
	"encoding/base64"
	"encoding/json"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ToURI renders the canonical share link. ok is false for chains, which
// have no single-link form.
func (p *Profile) ToURI() (uri string, ok bool, err error) {
	row, b, err := p.dispatch()
	if err != nil {
		return "", false, err
	}
	if row.uri == nil {
		return "", false, nil
	}
	return row.uri(b), true, nil
}

func (b *SOCKSBean) ToURI() string {
	u := url.URL{
		Scheme:   "socks",
		Host:     hostPort(b.ServerAddress, b.ServerPort),
		Fragment: b.Name,
	}
	if b.Username != "" {
		u.User = url.UserPassword(b.Username, b.Password)
	}
	return u.String()
}

func (b *HTTPBean) ToURI() string {
	u := url.URL{
		Scheme:   "http",
		Host:     hostPort(b.ServerAddress, b.ServerPort),
		Fragment: b.Name,
	}
	if b.TLS {
		u.Scheme = "https"
		if b.SNI != "" {
			u.RawQuery = url.Values{"sni": {b.SNI}}.Encode()
		}
	}
	if b.Username != "" {
		u.User = url.UserPassword(b.Username, b.Password)
	}
	return u.String()
}

// ToURI renders SIP002.
func (b *ShadowsocksBean) ToURI() string {
	userInfo := b.Method + ":" + b.Password
	u := url.URL{
		Scheme:   "ss",
		User:     url.User(base64.RawURLEncoding.EncodeToString([]byte(userInfo))),
		Host:     hostPort(b.ServerAddress, b.ServerPort),
		Fragment: b.Name,
	}
	if strings.TrimSpace(b.Plugin) != "" {
		u.Path = "/"
		u.RawQuery = url.Values{"plugin": {b.Plugin}}.Encode()
	}
	return u.String()
}

func (b *ShadowsocksRBean) ToURI() string {
	enc := base64.RawURLEncoding
	body := strings.Join([]string{
		hostPort(b.ServerAddress, b.ServerPort),
		b.Protocol,
		b.Method,
		b.Obfs,
		enc.EncodeToString([]byte(b.Password)),
	}, ":")
	q := url.Values{}
	q.Set("obfsparam", enc.EncodeToString([]byte(b.ObfsParam)))
	q.Set("protoparam", enc.EncodeToString([]byte(b.ProtocolParam)))
	q.Set("remarks", enc.EncodeToString([]byte(b.Name)))
	return "ssr://" + enc.EncodeToString([]byte(body+"/?"+q.Encode()))
}

// v2rayNLink is the base64 JSON body of a vmess:// link.
type v2rayNLink struct {
	V    string `json:"v"`
	Ps   string `json:"ps"`
	Add  string `json:"add"`
	Port string `json:"port"`
	ID   string `json:"id"`
	Aid  string `json:"aid"`
	Scy  string `json:"scy,omitempty"`
	Net  string `json:"net"`
	Type string `json:"type"`
	Host string `json:"host"`
	Path string `json:"path"`
	TLS  string `json:"tls"`
	SNI  string `json:"sni,omitempty"`
	ALPN string `json:"alpn,omitempty"`
	Fp   string `json:"fp,omitempty"`
}

// ToURI renders the v2rayN form. The remark is only kept when includeRemark is set.
func (b *VMessBean) ToURI(includeRemark bool) string {
	v := v2rayNLink{
		V:    "2",
		Add:  b.ServerAddress,
		Port: strconv.Itoa(b.ServerPort),
		ID:   b.UUID,
		Aid:  strconv.Itoa(b.AlterID),
		Scy:  b.Encryption,
		Net:  b.Type,
		Type: b.HeaderType,
		Host: b.Host,
		Path: b.Path,
		SNI:  b.SNI,
		ALPN: strings.Join(b.ALPN, ","),
		Fp:   b.Fingerprint,
	}
	if includeRemark {
		v.Ps = b.Name
	}
	if b.Security != "none" {
		v.TLS = b.Security
	}
	if v.Net == "" {
		v.Net = "tcp"
	}
	if v.Type == "" {
		v.Type = "none"
	}
	if b.Type == "grpc" {
		v.Path = b.ServiceName
	}

	data, _ := json.Marshal(v)
	return "vmess://" + base64.StdEncoding.EncodeToString(data)
}

func (b *VLESSBean) ToURI(includeRemark bool) string {
	u := url.URL{
		Scheme: "vless",
		User:   url.User(b.UUID),
		Host:   hostPort(b.ServerAddress, b.ServerPort),
	}
	if includeRemark {
		u.Fragment = b.Name
	}

	q := b.StandardV2RayBean.query()
	encryption := b.Encryption
	if encryption == "" {
		encryption = "none"
	}
	q.Set("encryption", encryption)
	if b.Flow != "" {
		q.Set("flow", b.Flow)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (b *StandardV2RayBean) query() url.Values {
	q := url.Values{}
	network := b.Type
	if network == "" {
		network = "tcp"
	}
	q.Set("type", network)

	if b.Security != "" && b.Security != "none" {
		q.Set("security", b.Security)
	}
	if b.SNI != "" {
		q.Set("sni", b.SNI)
	}
	if len(b.ALPN) > 0 {
		q.Set("alpn", strings.Join(b.ALPN, ","))
	}
	if b.Fingerprint != "" {
		q.Set("fp", b.Fingerprint)
	}
	if b.Insecure {
		q.Set("allowInsecure", "1")
	}
	if b.Security == "reality" {
		if b.PublicKey != "" {
			q.Set("pbk", b.PublicKey)
		}
		if b.ShortID != "" {
			q.Set("sid", b.ShortID)
		}
		if b.SpiderX != "" {
			q.Set("spx", b.SpiderX)
		}
	}
	if b.HeaderType != "" && b.HeaderType != "none" {
		q.Set("headerType", b.HeaderType)
	}
	if b.Host != "" {
		q.Set("host", b.Host)
	}
	switch {
	case network == "grpc":
		if b.ServiceName != "" {
			q.Set("serviceName", b.ServiceName)
		}
	case network == "kcp":
		if b.Path != "" {
			q.Set("seed", b.Path)
		}
	case b.Path != "":
		q.Set("path", b.Path)
	}
	return q
}

func (b *TrojanBean) ToURI() string {
	u := url.URL{
		Scheme:   "trojan",
		User:     url.User(b.Password),
		Host:     hostPort(b.ServerAddress, b.ServerPort),
		Fragment: b.Name,
	}
	q := url.Values{}
	if b.Security != "" {
		q.Set("security", b.Security)
	}
	if b.SNI != "" {
		q.Set("sni", b.SNI)
	}
	if len(b.ALPN) > 0 {
		q.Set("alpn", strings.Join(b.ALPN, ","))
	}
	if b.Flow != "" {
		q.Set("flow", b.Flow)
	}
	if b.Insecure {
		q.Set("allowInsecure", "1")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (b *TrojanGoBean) ToURI() string {
	u := url.URL{
		Scheme:   "trojan-go",
		User:     url.User(b.Password),
		Host:     hostPort(b.ServerAddress, b.ServerPort),
		Path:     "/",
		Fragment: b.Name,
	}
	q := url.Values{}
	if b.SNI != "" {
		q.Set("sni", b.SNI)
	}
	if b.Type != "" && b.Type != "original" {
		q.Set("type", b.Type)
		if b.Host != "" {
			q.Set("host", b.Host)
		}
		if b.Path != "" {
			q.Set("path", b.Path)
		}
	}
	if b.Encryption != "" && b.Encryption != "none" {
		q.Set("encryption", b.Encryption)
	}
	if b.Plugin != "" {
		q.Set("plugin", b.Plugin)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func hostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
