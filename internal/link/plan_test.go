package link

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformFromGOOS(t *testing.T) {
	tests := []struct {
		goos string
		want Platform
	}{
		{"windows", PlatformWindows},
		{"darwin", PlatformMacOS},
		{"linux", PlatformOther},
		{"freebsd", PlatformOther},
		{"", PlatformOther},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, PlatformFromGOOS(tt.goos))
		})
	}
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "Windows", PlatformWindows.String())
	assert.Equal(t, "MacOS", PlatformMacOS.String())
	assert.Equal(t, "Other", PlatformOther.String())
	assert.Equal(t, "Platform(7)", Platform(7).String())
}

func TestPlanWindows(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "opt", "sdk")
	p := NewPlanner(root).Plan(PlatformWindows)

	require.False(t, p.Empty())
	assert.Equal(t, []string{"XPLM_64", "XPWidgets_64"}, p.Libraries)
	assert.True(t, strings.HasPrefix(p.SearchPath, filepath.Join(root, LibraryDir)))
	assert.Equal(t, KindImportLibrary, p.Kind)
	assert.Equal(t, []string{"-L/opt/sdk/Libraries/Win", "-lXPLM_64", "-lXPWidgets_64"}, p.LDFlags())
}

func TestPlanMacOS(t *testing.T) {
	p := NewPlanner("/opt/sdk").Plan(PlatformMacOS)

	assert.Equal(t, KindFramework, p.Kind)
	assert.Equal(t, []string{"XPLM", "XPWidgets"}, p.Libraries)
	assert.Equal(t, []string{
		"cgo darwin LDFLAGS: -F/opt/sdk/Libraries/Mac -framework XPLM -framework XPWidgets",
	}, p.Directives())
}

func TestPlanOther(t *testing.T) {
	p := NewPlanner("/opt/sdk").Plan(PlatformOther)

	assert.True(t, p.Empty())
	assert.Empty(t, p.SearchPath)
	assert.Nil(t, p.LDFlags())
	assert.Nil(t, p.Directives())
}

func TestPlanIsTotalFunctionOfPlatform(t *testing.T) {
	pl := NewPlanner("/opt/sdk")
	for _, p := range []Platform{PlatformWindows, PlatformMacOS, PlatformOther} {
		assert.Equal(t, pl.Plan(p), pl.Plan(p), p.String())
	}
}

func TestDirectivesQuoteBlanks(t *testing.T) {
	p := NewPlanner("/Users/pilot/X-Plane SDK").Plan(PlatformMacOS)

	assert.Equal(t, []string{
		`cgo darwin LDFLAGS: "-F/Users/pilot/X-Plane SDK/Libraries/Mac" -framework XPLM -framework XPWidgets`,
	}, p.Directives())
}

func TestRenderCgoFile(t *testing.T) {
	f, ok, err := RenderCgoFile("xplm", NewPlanner("/opt/sdk").Plan(PlatformWindows))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "zz_xplm_link_windows.go", f.Filename)

	want := Header + `

//go:build windows

package xplm

/*
#cgo windows LDFLAGS: -L/opt/sdk/Libraries/Win -lXPLM_64 -lXPWidgets_64
*/
import "C"
`
	assert.Equal(t, want, string(f.Content))
}

func TestRenderCgoFileEmptyPlan(t *testing.T) {
	_, ok, err := RenderCgoFile("xplm", Plan{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCgoFilenames(t *testing.T) {
	assert.Equal(t, []string{"zz_xplm_link_windows.go", "zz_xplm_link_darwin.go"}, CgoFilenames())
}
