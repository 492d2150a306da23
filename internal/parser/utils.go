package parser

import (
	"encoding/base64"
	"net/url"
	"strings"

	"proxyprofile/internal/profile"
)

// DecodeBase64 attempts to decode standard and URL-safe base64 strings,
// automatically fixing missing padding.
func DecodeBase64(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	s = strings.TrimRight(s, "=")
	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}

	b, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return string(b), nil
	}

	b, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return string(b), nil
	}

	return "", err
}

// FixIllegalUrl cleans up common issues in pasted links.
func FixIllegalUrl(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

// applyQuery copies the standard transport/security params of a
// vless:// or vmess:// link. Mirrors v2rayNG's getItemFormQuery.
func applyQuery(b *profile.StandardV2RayBean, q url.Values) {
	if v := q.Get("type"); v != "" {
		b.Type = v
	}
	if v := q.Get("headerType"); v != "" {
		b.HeaderType = v
	}
	if v := q.Get("host"); v != "" {
		b.Host = v
	}
	if v := q.Get("path"); v != "" {
		b.Path = v
	}
	if v := q.Get("serviceName"); v != "" {
		b.ServiceName = v
	}
	if v := q.Get("security"); v != "" {
		b.Security = v
	}
	if v := q.Get("sni"); v != "" {
		b.SNI = v
	}
	if v := q.Get("fp"); v != "" {
		b.Fingerprint = v
	}
	if v := q.Get("alpn"); v != "" {
		b.ALPN = strings.Split(v, ",")
	}
	if v := q.Get("encryption"); v != "" {
		b.Encryption = v
	}
	if v := q.Get("pbk"); v != "" {
		b.PublicKey = v
	}
	if v := q.Get("sid"); v != "" {
		b.ShortID = v
	}
	if v := q.Get("spx"); v != "" {
		b.SpiderX = v
	}
	// kcp carries its seed where other networks carry a path
	if v := q.Get("seed"); v != "" && b.Type == "kcp" {
		b.Path = v
	}
	b.Insecure = insecure(q)
}

// Insecure mapping (1/0/true/false)
func insecure(q url.Values) bool {
	for _, key := range []string{"allowInsecure", "insecure", "allow_insecure"} {
		if val := q.Get(key); val != "" {
			return val == "1" || val == "true"
		}
	}
	return false
}
