package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"xplm-bindgen/internal/catalog"
	"xplm-bindgen/internal/discover"
)

func manifest() discover.Manifest {
	return discover.Manifest{Groups: []discover.Group{
		{
			Subsystem: discover.Subsystem{Name: "XPLM", Dir: "/sdk/CHeaders/XPLM"},
			Headers:   []string{"/sdk/CHeaders/XPLM/XPLMDefs.h", "/sdk/CHeaders/XPLM/XPLMMenus.h"},
		},
		{
			Subsystem: discover.Subsystem{Name: "Widgets", Dir: "/sdk/CHeaders/Widgets"},
			Headers:   []string{"/sdk/CHeaders/Widgets/XPWidgets.h"},
		},
	}}
}

func TestResolveDefaults(t *testing.T) {
	d := Resolve(DefaultToolchain(), catalog.Resolve(nil), manifest())

	assert.Equal(t, []string{
		"-xc",
		"-fparse-all-comments",
		"-DLIN=1",
		"-DXPLM200",
		"-DXPLM210",
		"-DXPLM300",
		"-DXPLM301",
		"-DXPLM303",
		"-I/sdk/CHeaders/XPLM",
		"-I/sdk/CHeaders/Widgets",
	}, d.Args())
}

func TestResolveOverridesReplaceDefaults(t *testing.T) {
	o, err := catalog.ParseOverrides("XPLM400;XPLM401")
	require.NoError(t, err)

	d := Resolve(DefaultToolchain(), catalog.Resolve(o), manifest())

	assert.Equal(t, []string{"-DXPLM200", "-DXPLM400", "-DXPLM401"}, d.Defines())
	assert.Equal(t, "-xc -fparse-all-comments -DLIN=1 -DXPLM200 -DXPLM400 -DXPLM401 "+
		"-I/sdk/CHeaders/XPLM -I/sdk/CHeaders/Widgets", d.String())
}

func TestResolveSkipsEmptyToolchainFlagsAndGroups(t *testing.T) {
	m := manifest()
	m.Groups[1].Headers = nil

	d := Resolve(Toolchain{CommentMode: "-fparse-all-comments"}, []catalog.Epoch{catalog.Floor}, m)

	assert.Equal(t, []string{"-fparse-all-comments", "-DXPLM200", "-I/sdk/CHeaders/XPLM"}, d.Args())
}

func TestResolveIsStable(t *testing.T) {
	epochs := catalog.Resolve(nil)

	a := Resolve(DefaultToolchain(), epochs, manifest())
	b := Resolve(DefaultToolchain(), epochs, manifest())
	assert.Equal(t, a.Args(), b.Args())

	// mutating the input does not leak into a resolved set
	epochs[1] = "XPLM999"
	assert.Equal(t, "-DXPLM210", a.Defines()[1])
}

func TestExportYAML(t *testing.T) {
	d := Resolve(DefaultToolchain(), []catalog.Epoch{"XPLM200", "XPLM400"}, manifest())

	data, err := ExportYAML(d, manifest())
	require.NoError(t, err)

	var s Summary
	require.NoError(t, yaml.Unmarshal(data, &s))

	assert.Equal(t, []string{"XPLM200", "XPLM400"}, s.Epochs)
	require.Len(t, s.Headers, 2)
	assert.Equal(t, "XPLM", s.Headers[0].Subsystem)
	assert.Len(t, s.Headers[0].Files, 2)
	assert.Equal(t, d.Args(), s.Flags)
}
