package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityMatrix(t *testing.T) {
	type row struct {
		external bool
		coreMux  *bool // nil: unsupported
		xrayMux  *bool
	}
	yes, no := true, false

	cases := []struct {
		name string
		mux  bool
		want []row
	}{
		{
			name: "mux off",
			mux:  false,
			want: []row{
				{external: false, coreMux: &no},
				{external: false, coreMux: &no},
				{external: false, coreMux: &no},
				{external: true, coreMux: &no},
				{external: false, coreMux: &yes},
				{external: false, coreMux: &yes, xrayMux: &yes},
				{external: false, coreMux: &no, xrayMux: &no},
				{external: true, coreMux: &no},
				{external: false},
			},
		},
		{
			name: "mux for all",
			mux:  true,
			want: []row{
				{external: false, coreMux: &yes},
				{external: false, coreMux: &yes},
				{external: false, coreMux: &yes},
				{external: true, coreMux: &yes},
				{external: false, coreMux: &yes},
				{external: false, coreMux: &yes, xrayMux: &yes},
				{external: false, coreMux: &yes, xrayMux: &yes},
				{external: true, coreMux: &no},
				{external: false},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Settings{EnableMuxForAll: tc.mux}
			for i, b := range sampleBeans() {
				p := New(1, b)
				want := tc.want[i]

				ext, err := p.NeedExternal(s)
				require.NoError(t, err)
				assert.Equal(t, want.external, ext, "external for %s", b.Kind())

				core, err := p.NeedCoreMux(s)
				if want.coreMux == nil {
					assert.ErrorIs(t, err, ErrUnsupportedOperation, "core mux for %s", b.Kind())
				} else {
					require.NoError(t, err)
					assert.Equal(t, *want.coreMux, core, "core mux for %s", b.Kind())
				}

				xray, err := p.NeedXrayMux(s)
				if want.xrayMux == nil {
					assert.ErrorIs(t, err, ErrUnsupportedOperation, "xray mux for %s", b.Kind())
				} else {
					require.NoError(t, err)
					assert.Equal(t, *want.xrayMux, xray, "xray mux for %s", b.Kind())
				}
			}
		})
	}
}

func TestCapabilityUndefinedType(t *testing.T) {
	p := &Profile{kind: Kind(99), bean: &SOCKSBean{}}

	_, err := p.NeedExternal(Settings{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = p.NeedCoreMux(Settings{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = p.NeedXrayMux(Settings{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = p.ToURI()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCapabilityMissingBean(t *testing.T) {
	p := &Profile{kind: KindTrojan}
	_, err := p.NeedExternal(Settings{})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestVLESSAcceleratedTransportGate(t *testing.T) {
	bean := &VLESSBean{StandardV2RayBean: StandardV2RayBean{Security: "xtls", Type: "tcp", HeaderType: ""}}
	p := New(1, bean)

	useXray, err := p.UseXray()
	require.NoError(t, err)
	assert.True(t, useXray)
	core, err := p.NeedCoreMux(Settings{EnableMuxForAll: true})
	require.NoError(t, err)
	assert.False(t, core)
	ext, err := p.NeedExternal(Settings{})
	require.NoError(t, err)
	assert.True(t, ext)

	bean.HeaderType = "none"
	useXray, err = p.UseXray()
	require.NoError(t, err)
	assert.True(t, useXray)

	bean.HeaderType = "http"
	useXray, err = p.UseXray()
	require.NoError(t, err)
	assert.False(t, useXray)
	core, err = p.NeedCoreMux(Settings{})
	require.NoError(t, err)
	assert.True(t, core)

	bean.HeaderType = ""
	bean.Type = "ws"
	useXray, err = p.UseXray()
	require.NoError(t, err)
	assert.False(t, useXray)
	xray, err := p.NeedXrayMux(Settings{})
	require.NoError(t, err)
	assert.True(t, xray)

	bean.Type = "grpc"
	xray, err = p.NeedXrayMux(Settings{})
	require.NoError(t, err)
	assert.False(t, xray)
}

func TestTrojanAcceleratedTransportGate(t *testing.T) {
	bean := &TrojanBean{Security: "xtls"}
	p := New(1, bean)
	s := Settings{EnableMuxForAll: true}

	ext, err := p.NeedExternal(s)
	require.NoError(t, err)
	assert.True(t, ext)
	core, err := p.NeedCoreMux(s)
	require.NoError(t, err)
	assert.False(t, core)
	xray, err := p.NeedXrayMux(s)
	require.NoError(t, err)
	assert.True(t, xray)

	bean.Security = "tls"
	core, err = p.NeedCoreMux(s)
	require.NoError(t, err)
	assert.True(t, core)
}

func TestNeedMuxFollowsCarryingCore(t *testing.T) {
	vless := New(1, &VLESSBean{StandardV2RayBean: StandardV2RayBean{Security: "xtls", Type: "tcp"}})
	core, err := vless.NeedCoreMux(Settings{})
	require.NoError(t, err)
	assert.False(t, core)
	mux, err := vless.NeedMux(Settings{})
	require.NoError(t, err)
	assert.True(t, mux)

	trojan := New(1, &TrojanBean{Security: "xtls"})
	mux, err = trojan.NeedMux(Settings{})
	require.NoError(t, err)
	assert.False(t, mux)
	mux, err = trojan.NeedMux(Settings{EnableMuxForAll: true})
	require.NoError(t, err)
	assert.True(t, mux)

	socks := New(1, &SOCKSBean{})
	mux, err = socks.NeedMux(Settings{EnableMuxForAll: true})
	require.NoError(t, err)
	assert.True(t, mux)

	_, err = New(1, &ChainBean{}).NeedMux(Settings{})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestUseExternalShadowsocks(t *testing.T) {
	cases := []struct {
		name  string
		bean  *ShadowsocksBean
		force bool
		want  bool
	}{
		{"builtin cipher", &ShadowsocksBean{Method: "chacha20-ietf-poly1305"}, false, false},
		{"forced", &ShadowsocksBean{Method: "aes-128-gcm"}, true, true},
		{"plugin", &ShadowsocksBean{Method: "aes-128-gcm", Plugin: "obfs-local;obfs=http"}, false, true},
		{"blank plugin", &ShadowsocksBean{Method: "aes-128-gcm", Plugin: "  "}, false, false},
		{"stream cipher", &ShadowsocksBean{Method: "rc4-md5"}, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(1, tc.bean)
			s := Settings{ForceShadowsocksRust: tc.force}

			got, err := p.UseExternalShadowsocks(s)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			ext, err := p.NeedExternal(s)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ext)
		})
	}

	got, err := New(1, &SOCKSBean{}).UseExternalShadowsocks(Settings{ForceShadowsocksRust: true})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIsV2RayNetworkTCP(t *testing.T) {
	for network, want := range map[string]bool{"tcp": true, "ws": true, "http": true, "quic": false, "grpc": false, "kcp": false} {
		p := New(1, &VMessBean{StandardV2RayBean: StandardV2RayBean{Type: network}})
		got, err := p.IsV2RayNetworkTCP()
		require.NoError(t, err)
		assert.Equal(t, want, got, network)
	}

	_, err := New(1, &TrojanBean{}).IsV2RayNetworkTCP()
	assert.True(t, errors.Is(err, ErrUnsupportedOperation))
}

func TestDispatchClosure(t *testing.T) {
	s := Settings{}
	for _, k := range Kinds {
		row, err := rowFor(k)
		require.NoError(t, err)
		p := New(1, row.newBean())

		_, err = p.NeedExternal(s)
		assert.NoError(t, err, k.String())

		for _, q := range []func(Settings) (bool, error){p.NeedCoreMux, p.NeedXrayMux} {
			if _, err := q(s); err != nil {
				assert.ErrorIs(t, err, ErrUnsupportedOperation, k.String())
			}
		}
	}
}
