package xray

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"proxyprofile/internal/logger"
	"proxyprofile/internal/profile"

	"github.com/xtls/xray-core/infra/conf"
)

// DefaultTag is the tag of the exported entry outbound.
const DefaultTag = "proxy"

// Outbounds converts a stored profile into xray outbounds. The first
// element is the one traffic enters. A chain yields one outbound per
// member, each dialing through the member before it.
func Outbounds(ctx context.Context, lookup profile.Lookup, p *profile.Profile, s profile.Settings) ([]*conf.OutboundDetourConfig, error) {
	if p.Type() != profile.KindChain {
		out, err := ToOutbound(p, s, DefaultTag)
		if err != nil {
			return nil, err
		}
		return []*conf.OutboundDetourConfig{out}, nil
	}

	members, err := profile.ResolveChain(ctx, lookup, p)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: chain %d has no members", profile.ErrInvalidState, p.ID)
	}

	// Exit hop first so it becomes the default outbound.
	outs := make([]*conf.OutboundDetourConfig, 0, len(members))
	last := len(members) - 1
	for i := last; i >= 0; i-- {
		tag := fmt.Sprintf("%s-%d", DefaultTag, i)
		if i == last {
			tag = DefaultTag
		}
		out, err := ToOutbound(members[i], s, tag)
		if err != nil {
			return nil, fmt.Errorf("chain %d member %d: %w", p.ID, members[i].ID, err)
		}
		if i > 0 {
			out.ProxySettings = &conf.ProxyConfig{Tag: fmt.Sprintf("%s-%d", DefaultTag, i-1)}
		}
		outs = append(outs, out)
	}
	logger.Log.Debugf("Chain %d expanded into %d outbounds", p.ID, len(outs))
	return outs, nil
}

// ToOutbound converts a single transport profile.
func ToOutbound(p *profile.Profile, s profile.Settings, tag string) (*conf.OutboundDetourConfig, error) {
	b, err := p.Bean()
	if err != nil {
		return nil, err
	}

	var protocol string
	var settings json.RawMessage
	var stream *conf.StreamConfig

	switch bean := b.(type) {
	case *profile.SOCKSBean:
		protocol = "socks"
		settings = buildServer(&bean.ServerBean, bean.Username, bean.Password)
	case *profile.HTTPBean:
		protocol = "http"
		settings = buildServer(&bean.ServerBean, bean.Username, bean.Password)
		if bean.TLS {
			stream = &conf.StreamConfig{
				Security:    "tls",
				TLSSettings: &conf.TLSConfig{ServerName: bean.SNI},
			}
		}
	case *profile.ShadowsocksBean:
		external, err := p.UseExternalShadowsocks(s)
		if err != nil {
			return nil, err
		}
		if external {
			return nil, fmt.Errorf("%w: shadowsocks %s needs an external process", profile.ErrUnsupportedOperation, bean.Method)
		}
		protocol = "shadowsocks"
		settings = buildShadowsocks(bean)
	case *profile.VMessBean:
		protocol = "vmess"
		settings = buildVMess(bean)
		stream, err = buildStreamSettings(&bean.StandardV2RayBean)
	case *profile.VLESSBean:
		protocol = "vless"
		settings = buildVLESS(bean)
		stream, err = buildStreamSettings(&bean.StandardV2RayBean)
	case *profile.TrojanBean:
		protocol = "trojan"
		settings = buildTrojan(bean)
		stream, err = buildTrojanStream(bean)
	default:
		return nil, fmt.Errorf("%w: %s has no xray outbound", profile.ErrUnsupportedOperation, b.Kind())
	}
	if err != nil {
		return nil, err
	}

	out := &conf.OutboundDetourConfig{
		Tag:           tag,
		Protocol:      protocol,
		Settings:      &settings,
		StreamSetting: stream,
	}

	mux, err := p.NeedMux(s)
	if err != nil {
		return nil, err
	}
	if mux {
		out.MuxSettings = &conf.MuxConfig{Enabled: true, Concurrency: 8}
	}
	return out, nil
}

// --- JSON Builders ---

func buildServer(b *profile.ServerBean, username, password string) json.RawMessage {
	server := map[string]interface{}{
		"address": b.ServerAddress,
		"port":    b.ServerPort,
	}
	if username != "" {
		server["users"] = []interface{}{
			map[string]interface{}{"user": username, "pass": password},
		}
	}
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{server},
	})
}

func buildShadowsocks(b *profile.ShadowsocksBean) json.RawMessage {
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{
				"address":  b.ServerAddress,
				"port":     b.ServerPort,
				"method":   b.Method,
				"password": b.Password,
			},
		},
	})
}

func buildVMess(b *profile.VMessBean) json.RawMessage {
	security := b.Encryption
	if security == "" {
		security = "auto"
	}
	return jsonRaw(map[string]interface{}{
		"vnext": []interface{}{
			map[string]interface{}{
				"address": b.ServerAddress,
				"port":    b.ServerPort,
				"users": []interface{}{
					map[string]interface{}{
						"id":       b.UUID,
						"alterId":  b.AlterID,
						"security": security,
					},
				},
			},
		},
	})
}

func buildVLESS(b *profile.VLESSBean) json.RawMessage {
	encryption := b.Encryption
	if encryption == "" {
		encryption = "none"
	}
	return jsonRaw(map[string]interface{}{
		"vnext": []interface{}{
			map[string]interface{}{
				"address": b.ServerAddress,
				"port":    b.ServerPort,
				"users": []interface{}{
					map[string]interface{}{
						"id":         b.UUID,
						"encryption": encryption,
						"flow":       b.Flow,
					},
				},
			},
		},
	})
}

func buildTrojan(b *profile.TrojanBean) json.RawMessage {
	server := map[string]interface{}{
		"address":  b.ServerAddress,
		"port":     b.ServerPort,
		"password": b.Password,
	}
	if b.Flow != "" {
		server["flow"] = b.Flow
	}
	return jsonRaw(map[string]interface{}{
		"servers": []interface{}{server},
	})
}

func buildStreamSettings(b *profile.StandardV2RayBean) (*conf.StreamConfig, error) {
	network := b.Type
	if network == "" {
		network = "tcp"
	}

	sc := &conf.StreamConfig{}
	reality := &realityKeys{publicKey: b.PublicKey, shortID: b.ShortID, spiderX: b.SpiderX}
	if err := applySecurity(sc, b.Security, b.SNI, b.Fingerprint, b.ALPN, b.Insecure, reality); err != nil {
		return nil, err
	}

	// Transports
	switch network {
	case "ws":
		sc.WSSettings = &conf.WebSocketConfig{
			Path: b.Path,
			Headers: map[string]string{
				"Host": b.Host,
			},
		}
	case "grpc":
		sc.GRPCSettings = &conf.GRPCConfig{
			ServiceName: b.ServiceName,
		}
	case "http":
		// The h2 transport is gone from xray; XHTTP stream-one replaces it.
		network = "xhttp"
		host, _, _ := strings.Cut(b.Host, ",")
		sc.XHTTPSettings = &conf.SplitHTTPConfig{
			Host: strings.TrimSpace(host),
			Path: b.Path,
			Mode: "stream-one",
		}
	case "kcp":
		if b.HeaderType != "" && b.HeaderType != "none" {
			return nil, fmt.Errorf("%w: kcp header %q", profile.ErrUnsupportedOperation, b.HeaderType)
		}
		sc.KCPSettings = &conf.KCPConfig{}
		if b.Path != "" {
			sc.KCPSettings.Seed = stringPtr(b.Path)
		}
	case "tcp":
		switch b.HeaderType {
		case "", "none":
		case "http":
			sc.TCPSettings = &conf.TCPConfig{
				HeaderConfig: jsonRaw(map[string]interface{}{
					"type": "http",
					"request": map[string]interface{}{
						"headers": map[string]interface{}{
							"Host": []string{b.Host},
						},
						"path": []string{b.Path},
					},
				}),
			}
		default:
			return nil, fmt.Errorf("%w: tcp header %q", profile.ErrUnsupportedOperation, b.HeaderType)
		}
	default:
		return nil, fmt.Errorf("%w: network %q", profile.ErrUnsupportedOperation, network)
	}

	sc.Network = (*conf.TransportProtocol)(&network)
	return sc, nil
}

func buildTrojanStream(b *profile.TrojanBean) (*conf.StreamConfig, error) {
	network := "tcp"
	sc := &conf.StreamConfig{
		Network: (*conf.TransportProtocol)(&network),
	}
	security := b.Security
	if security == "" {
		security = "tls"
	}
	if err := applySecurity(sc, security, b.SNI, "", b.ALPN, b.Insecure, nil); err != nil {
		return nil, err
	}
	return sc, nil
}

type realityKeys struct {
	publicKey string
	shortID   string
	spiderX   string
}

// applySecurity fills TLS or REALITY settings. xtls is carried as tls; the
// flow on the user entry selects the splice mode. reality needs keys.
func applySecurity(sc *conf.StreamConfig, security, sni, fingerprint string, alpn []string, insecure bool, keys *realityKeys) error {
	switch security {
	case "", "none":
		sc.Security = "none"
		return nil
	case "tls", "xtls":
		sc.Security = "tls"
		sc.TLSSettings = &conf.TLSConfig{
			ServerName:  sni,
			Fingerprint: fingerprint,
			Insecure:    insecure,
		}
		if len(alpn) > 0 {
			sc.TLSSettings.ALPN = &conf.StringList{}
			*sc.TLSSettings.ALPN = append(*sc.TLSSettings.ALPN, alpn...)
		}
		return nil
	case "reality":
		if keys == nil {
			return fmt.Errorf("%w: security %q", profile.ErrUnsupportedOperation, security)
		}
		if keys.publicKey == "" {
			return fmt.Errorf("%w: reality without public key", profile.ErrInvalidState)
		}
		if fingerprint == "" {
			fingerprint = "chrome"
		}
		sc.Security = "reality"
		sc.REALITYSettings = &conf.REALITYConfig{
			Fingerprint: fingerprint,
			ServerName:  sni,
			PublicKey:   keys.publicKey,
			ShortId:     keys.shortID,
			SpiderX:     keys.spiderX,
		}
		return nil
	}
	return fmt.Errorf("%w: security %q", profile.ErrUnsupportedOperation, security)
}

// --- Internal Helper Functions ---

func jsonRaw(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return json.RawMessage(b)
}

func stringPtr(s string) *string {
	return &s
}
