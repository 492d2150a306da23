package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"proxyprofile/internal/profile"
)

// ErrUnsupportedScheme is returned for links whose scheme has no proxy kind.
var ErrUnsupportedScheme = errors.New("parser: unsupported protocol")

// Parse turns a share link into the bean for its proxy kind.
func Parse(raw string) (profile.Bean, error) {
	raw = FixIllegalUrl(raw)
	parts := strings.SplitN(raw, "://", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid uri format")
	}

	scheme := strings.ToLower(parts[0])
	switch scheme {
	case "vmess":
		return parseVMess(raw, parts[1])
	case "vless":
		return parseVLESS(raw)
	case "trojan":
		return parseTrojan(raw)
	case "trojan-go":
		return parseTrojanGo(raw)
	case "ss", "shadowsocks":
		return parseShadowsocks(raw, parts[1])
	case "ssr":
		return parseShadowsocksR(parts[1])
	case "socks", "socks5":
		return parseSocks(raw)
	case "http", "https":
		return parseHTTP(raw, scheme == "https")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// server reads the endpoint and remark shared by every URL-shaped link.
func server(u *url.URL) (profile.ServerBean, error) {
	s := profile.ServerBean{
		Name:          u.Fragment,
		ServerAddress: u.Hostname(),
	}
	if s.ServerAddress == "" {
		return s, fmt.Errorf("missing server address")
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil || port <= 0 || port > 65535 {
		return s, fmt.Errorf("invalid port %q", u.Port())
	}
	s.ServerPort = port
	return s, nil
}

func parseURL(raw string) (*url.URL, profile.ServerBean, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, profile.ServerBean{}, err
	}
	s, err := server(u)
	return u, s, err
}

// --- Socks / HTTP ---
func parseSocks(raw string) (profile.Bean, error) {
	u, s, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	b := &profile.SOCKSBean{ServerBean: s}
	if u.User != nil {
		b.Username = u.User.Username()
		b.Password, _ = u.User.Password()
	}
	return b, nil
}

func parseHTTP(raw string, tls bool) (profile.Bean, error) {
	u, s, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	b := &profile.HTTPBean{ServerBean: s, TLS: tls}
	if u.User != nil {
		b.Username = u.User.Username()
		b.Password, _ = u.User.Password()
	}
	if tls {
		b.SNI = u.Query().Get("sni")
	}
	return b, nil
}

// --- VMess ---
type vmessJSON struct {
	V    interface{} `json:"v"`
	Ps   string      `json:"ps"`
	Add  string      `json:"add"`
	Port interface{} `json:"port"`
	Id   string      `json:"id"`
	Aid  interface{} `json:"aid"`
	Scy  string      `json:"scy"`
	Net  string      `json:"net"`
	Type string      `json:"type"`
	Host string      `json:"host"`
	Path string      `json:"path"`
	Tls  string      `json:"tls"`
	Sni  string      `json:"sni"`
	Alpn string      `json:"alpn"`
	Fp   string      `json:"fp"`
}

func parseVMess(raw, body string) (profile.Bean, error) {
	// Standard VMess URI (vmess://uuid@host:port?...)
	if strings.Contains(body, "@") {
		std, err := parseStandard(raw)
		if err != nil {
			return nil, err
		}
		if std.Encryption == "" {
			std.Encryption = "auto"
		}
		return &profile.VMessBean{StandardV2RayBean: std}, nil
	}

	// Base64 JSON (v2rayN)
	jsonStr, err := DecodeBase64(strings.SplitN(body, "#", 2)[0])
	if err != nil {
		return nil, fmt.Errorf("vmess base64 error: %w", err)
	}

	var v vmessJSON
	if err := json.Unmarshal([]byte(jsonStr), &v); err != nil {
		return nil, fmt.Errorf("vmess json error: %w", err)
	}
	if v.Add == "" {
		return nil, fmt.Errorf("missing server address")
	}

	// Port and aid can be string or int in JSON
	port, err := strconv.Atoi(fmt.Sprintf("%v", v.Port))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %v", v.Port)
	}
	aid := 0
	if v.Aid != nil {
		aid, _ = strconv.Atoi(fmt.Sprintf("%v", v.Aid))
	}

	b := &profile.VMessBean{
		StandardV2RayBean: profile.StandardV2RayBean{
			ServerBean: profile.ServerBean{
				Name:          v.Ps,
				ServerAddress: v.Add,
				ServerPort:    port,
			},
			UUID:        v.Id,
			Encryption:  v.Scy,
			Type:        v.Net,
			Host:        v.Host,
			Path:        v.Path,
			HeaderType:  v.Type,
			Security:    v.Tls,
			SNI:         v.Sni,
			Fingerprint: v.Fp,
		},
		AlterID: aid,
	}
	if b.Encryption == "" {
		b.Encryption = "auto"
	}
	if b.Type == "" {
		b.Type = "tcp"
	}
	if b.Security == "" {
		b.Security = "none"
	}
	if v.Alpn != "" {
		b.ALPN = strings.Split(v.Alpn, ",")
	}
	if b.Type == "grpc" {
		b.ServiceName = v.Path
		b.Path = ""
	}
	return b, nil
}

// --- VLESS / standard form ---
func parseStandard(raw string) (profile.StandardV2RayBean, error) {
	u, s, err := parseURL(raw)
	if err != nil {
		return profile.StandardV2RayBean{}, err
	}
	b := profile.StandardV2RayBean{
		ServerBean: s,
		Type:       "tcp",
		Security:   "none",
	}
	if u.User != nil {
		b.UUID = u.User.Username()
	}
	applyQuery(&b, u.Query())
	return b, nil
}

func parseVLESS(raw string) (profile.Bean, error) {
	std, err := parseStandard(raw)
	if err != nil {
		return nil, err
	}
	if std.Encryption == "" {
		std.Encryption = "none"
	}
	u, _ := url.Parse(raw)
	return &profile.VLESSBean{
		StandardV2RayBean: std,
		Flow:              u.Query().Get("flow"),
	}, nil
}

// --- Trojan ---
func parseTrojan(raw string) (profile.Bean, error) {
	u, s, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	b := &profile.TrojanBean{
		ServerBean: s,
		Security:   "tls",
		SNI:        q.Get("sni"),
		Flow:       q.Get("flow"),
		Insecure:   insecure(q),
	}
	if u.User != nil {
		b.Password = u.User.Username()
	}
	if v := q.Get("security"); v != "" {
		b.Security = v
	}
	if b.SNI == "" {
		b.SNI = q.Get("peer")
	}
	if v := q.Get("alpn"); v != "" {
		b.ALPN = strings.Split(v, ",")
	}
	return b, nil
}

func parseTrojanGo(raw string) (profile.Bean, error) {
	u, s, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	b := &profile.TrojanGoBean{
		ServerBean: s,
		SNI:        q.Get("sni"),
		Type:       q.Get("type"),
		Host:       q.Get("host"),
		Path:       q.Get("path"),
		Encryption: q.Get("encryption"),
		Plugin:     q.Get("plugin"),
		Insecure:   insecure(q),
	}
	if u.User != nil {
		b.Password = u.User.Username()
	}
	if b.Type == "" {
		b.Type = "original"
	}
	return b, nil
}

// --- Shadowsocks ---
func parseShadowsocks(raw, body string) (profile.Bean, error) {
	// Legacy form: ss://base64(method:password@host:port)#remark
	if !strings.Contains(body, "@") {
		rest, remark, _ := strings.Cut(body, "#")
		decoded, err := DecodeBase64(rest)
		if err != nil {
			return nil, fmt.Errorf("shadowsocks base64 error: %w", err)
		}
		raw = "ss://" + decoded
		if remark != "" {
			raw += "#" + remark
		}
	}

	u, s, err := parseURL(raw)
	if err != nil {
		return nil, err
	}
	if u.User == nil {
		return nil, fmt.Errorf("invalid shadowsocks userinfo")
	}

	userInfo := u.User.String()
	if p, ok := u.User.Password(); ok {
		userInfo = u.User.Username() + ":" + p
	} else if decoded, err := DecodeBase64(u.User.Username()); err == nil {
		// SIP002: method:password is base64 encoded
		userInfo = decoded
	}

	method, password, ok := strings.Cut(userInfo, ":")
	if !ok || method == "" {
		return nil, fmt.Errorf("invalid shadowsocks userinfo")
	}

	return &profile.ShadowsocksBean{
		ServerBean: s,
		Method:     strings.ToLower(method),
		Password:   password,
		Plugin:     u.Query().Get("plugin"),
	}, nil
}

// --- ShadowsocksR ---
// ssr://base64(host:port:protocol:method:obfs:base64(password)/?params)
func parseShadowsocksR(body string) (profile.Bean, error) {
	decoded, err := DecodeBase64(body)
	if err != nil {
		return nil, fmt.Errorf("ssr base64 error: %w", err)
	}

	head, rawQuery, _ := strings.Cut(decoded, "/?")
	head = strings.TrimSuffix(head, "/")
	fields := strings.Split(head, ":")
	if len(fields) < 6 {
		return nil, fmt.Errorf("invalid ssr body")
	}
	n := len(fields)
	host := strings.Join(fields[:n-5], ":")
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		host = ip.String()
	}
	port, err := strconv.Atoi(fields[n-5])
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %q", fields[n-5])
	}
	password, err := DecodeBase64(fields[n-1])
	if err != nil {
		return nil, fmt.Errorf("ssr password error: %w", err)
	}

	b := &profile.ShadowsocksRBean{
		ServerBean: profile.ServerBean{
			ServerAddress: host,
			ServerPort:    port,
		},
		Protocol: fields[n-4],
		Method:   fields[n-3],
		Obfs:     fields[n-2],
		Password: password,
	}

	q, _ := url.ParseQuery(rawQuery)
	b.ObfsParam, _ = DecodeBase64(q.Get("obfsparam"))
	b.ProtocolParam, _ = DecodeBase64(q.Get("protoparam"))
	b.Name, _ = DecodeBase64(q.Get("remarks"))
	return b, nil
}
