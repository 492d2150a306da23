package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBeans() []Bean {
	server := ServerBean{Name: "node", ServerAddress: "example.com", ServerPort: 443}
	return []Bean{
		&SOCKSBean{ServerBean: server, Username: "u", Password: "p"},
		&HTTPBean{ServerBean: server, TLS: true, SNI: "sni.example.com"},
		&ShadowsocksBean{ServerBean: server, Method: "aes-128-gcm", Password: "pass"},
		&ShadowsocksRBean{ServerBean: server, Method: "aes-256-cfb", Password: "pass", Protocol: "origin", Obfs: "plain"},
		&VMessBean{StandardV2RayBean: StandardV2RayBean{ServerBean: server, UUID: "b831381d-6324-4d53-ad4f-8cda48b30811", Type: "ws", Path: "/ws"}},
		&VLESSBean{StandardV2RayBean: StandardV2RayBean{ServerBean: server, UUID: "b831381d-6324-4d53-ad4f-8cda48b30811", Type: "tcp", Security: "tls"}},
		&TrojanBean{ServerBean: server, Password: "secret", Security: "tls"},
		&TrojanGoBean{ServerBean: server, Password: "secret", Type: "ws", Path: "/tg"},
		&ChainBean{Name: "relay", Proxies: []int64{1, 2}},
	}
}

func TestSetBeanSwitchesKind(t *testing.T) {
	p := New(7, &SOCKSBean{})
	for _, b := range sampleBeans() {
		p.SetBean(b)

		assert.Equal(t, b.Kind(), p.Type())
		got, err := p.Bean()
		require.NoError(t, err)
		assert.Same(t, b, got)
	}
	assert.Equal(t, int64(7), p.GroupID)
}

func TestBeanInvalidState(t *testing.T) {
	var p Profile
	_, err := p.Bean()
	assert.ErrorIs(t, err, ErrInvalidState)

	p = Profile{kind: KindVMess, bean: &SOCKSBean{}}
	_, err = p.Bean()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBeanUndefinedType(t *testing.T) {
	p := Profile{kind: Kind(42), bean: &SOCKSBean{}}
	_, err := p.Bean()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRequireTypeMismatch(t *testing.T) {
	p := New(1, &ShadowsocksBean{Method: "none"})

	ss, err := p.RequireSS()
	require.NoError(t, err)
	assert.Equal(t, "none", ss.Method)

	_, err = p.RequireVMess()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = p.RequireChain()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestTypeLabel(t *testing.T) {
	s := Settings{ChainLabel: "Relay"}
	want := []string{"SOCKS5", "HTTPS", "Shadowsocks", "ShadowsocksR", "VMess", "VLESS", "Trojan", "Trojan-Go", "Relay"}

	for i, b := range sampleBeans() {
		label, err := New(1, b).TypeLabel(s)
		require.NoError(t, err)
		assert.Equal(t, want[i], label)
	}

	label, err := New(1, &HTTPBean{}).TypeLabel(s)
	require.NoError(t, err)
	assert.Equal(t, "HTTP", label)

	label, err = New(1, &ChainBean{}).TypeLabel(Settings{})
	require.NoError(t, err)
	assert.Equal(t, DefaultChainLabel, label)
}

func TestDisplayName(t *testing.T) {
	name, err := New(1, &SOCKSBean{ServerBean: ServerBean{Name: "home"}}).DisplayName()
	require.NoError(t, err)
	assert.Equal(t, "home", name)

	name, err = New(1, &SOCKSBean{ServerBean: ServerBean{ServerAddress: "::1", ServerPort: 1080}}).DisplayName()
	require.NoError(t, err)
	assert.Equal(t, "[::1]:1080", name)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(int32(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind(9)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ParseKind(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSettingsSurface(t *testing.T) {
	seen := make(map[Surface]bool)
	for _, k := range Kinds {
		s, err := SettingsSurface(k)
		require.NoError(t, err)
		assert.False(t, seen[s], "surface %s reused", s)
		seen[s] = true
	}

	_, err := SettingsSurface(Kind(9))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	p := New(1, &TrojanBean{})
	p.ID = 5
	route, err := p.SettingsRoute(true)
	require.NoError(t, err)
	assert.Equal(t, SettingsRoute{Surface: SurfaceTrojan, ProfileID: 5, IsSubscription: true}, route)
}

func TestCodecRoundTrip(t *testing.T) {
	for _, b := range sampleBeans() {
		data, err := EncodeBean(b)
		require.NoError(t, err)

		got, err := DecodeBean(data, b.Kind())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := DecodeBean([]byte("{}"), Kind(12))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = DecodeBean([]byte("not json"), KindSOCKS)
	assert.Error(t, err)
}
