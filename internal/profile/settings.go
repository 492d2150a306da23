package profile

import "fmt"

const DefaultChainLabel = "Chain"

// Settings is a snapshot of the user switches that capability queries
// depend on. It is passed explicitly instead of read from global state.
type Settings struct {
	ForceShadowsocksRust bool
	EnableMuxForAll      bool
	ChainLabel           string
}

// Surface names the editor screen responsible for one kind of profile.
type Surface string

const (
	SurfaceSOCKS        Surface = "socks-settings"
	SurfaceHTTP         Surface = "http-settings"
	SurfaceShadowsocks  Surface = "shadowsocks-settings"
	SurfaceShadowsocksR Surface = "shadowsocksr-settings"
	SurfaceVMess        Surface = "vmess-settings"
	SurfaceVLESS        Surface = "vless-settings"
	SurfaceTrojan       Surface = "trojan-settings"
	SurfaceTrojanGo     Surface = "trojan-go-settings"
	SurfaceChain        Surface = "chain-settings"
)

// SettingsSurface maps a type tag to its editor surface.
func SettingsSurface(k Kind) (Surface, error) {
	row, err := rowFor(k)
	if err != nil {
		return "", err
	}
	return row.surface, nil
}

// SettingsRoute is what a caller needs to open the editor for a profile.
type SettingsRoute struct {
	Surface        Surface
	ProfileID      int64
	IsSubscription bool
}

func (p *Profile) SettingsRoute(isSubscription bool) (SettingsRoute, error) {
	surface, err := SettingsSurface(p.kind)
	if err != nil {
		return SettingsRoute{}, fmt.Errorf("settings route for profile %d: %w", p.ID, err)
	}
	return SettingsRoute{
		Surface:        surface,
		ProfileID:      p.ID,
		IsSubscription: isSubscription,
	}, nil
}
