package link

//go:generate go tool stringer -type=Platform -trimprefix=Platform -output=platform_string.go

// Platform is a target platform as far as linkage is concerned.
type Platform int

const (
	// PlatformOther resolves XPLM symbols from the host process at load time.
	PlatformOther Platform = iota
	// PlatformWindows links against the SDK import libraries.
	PlatformWindows
	// PlatformMacOS links against the SDK frameworks.
	PlatformMacOS
)

// PlatformFromGOOS maps a GOOS value to its platform.
func PlatformFromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	default:
		return PlatformOther
	}
}

// NeedsLinkage reports whether the platform resolves symbols at link time.
func (p Platform) NeedsLinkage() bool {
	return p == PlatformWindows || p == PlatformMacOS
}
