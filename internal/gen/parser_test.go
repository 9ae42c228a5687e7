package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xplm-bindgen/internal/diagnostic"
)

// TestHelperProcess is not a real test. It stands in for the external
// parser when re-executed by helperParser.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}

	if len(args) > 0 {
		args = args[1:]
	}

	switch os.Getenv("HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "XPLMDefs.h:12:1: error: unknown type name 'XPLMBogus'")
		os.Exit(1)
	case "empty":
		os.Exit(0)
	case "cat":
		data, err := os.ReadFile(args[len(args)-1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		os.Stdout.Write(data)
		os.Exit(0)
	default:
		fmt.Fprint(os.Stdout, strings.Join(args, "\n"))
		os.Exit(0)
	}
}

func helperParser(mode string) *CommandParser {
	p := NewCommandParser(os.Args[0], "-test.run=TestHelperProcess", "--")
	p.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)

	return p
}

func TestCommandLine(t *testing.T) {
	p := NewCommandParser("clang", "-E", "-P")

	argv := p.CommandLine([]string{"-xc", "-DXPLM200"}, "/tmp/xplm_wrapper.h")
	assert.Equal(t, []string{"clang", "-E", "-P", "-xc", "-DXPLM200", "/tmp/xplm_wrapper.h"}, argv)
}

func TestWrapperSource(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "XPLM", "XPLMDefs.h")
	b := filepath.Join(dir, "Widgets", "XPWidgets.h")

	src, err := WrapperSource([]string{a, b})
	require.NoError(t, err)
	assert.Equal(t,
		"#include \""+filepath.ToSlash(a)+"\"\n#include \""+filepath.ToSlash(b)+"\"\n",
		string(src))

	src, err = WrapperSource([]string{"XPLMDefs.h"})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, "#include \""+filepath.ToSlash(filepath.Join(wd, "XPLMDefs.h"))+"\"\n", string(src))

	_, err = WrapperSource([]string{filepath.Join(dir, `odd"name.h`)})
	require.Error(t, err)
}

func TestCommandParserGenerate(t *testing.T) {
	out, err := helperParser("echo").Generate(context.Background(),
		[]string{"-xc", "-DXPLM301"}, []string{"/sdk/CHeaders/XPLM/XPLMDefs.h", "/sdk/CHeaders/XPLM/XPLMMenus.h"})
	require.NoError(t, err)

	args := strings.Split(string(out), "\n")
	require.Len(t, args, 3, "one translation unit")
	assert.Equal(t, []string{"-xc", "-DXPLM301"}, args[:2])
	assert.Equal(t, WrapperName, filepath.Base(args[2]))

	// the wrapper is gone once the tool returned
	assert.NoDirExists(t, filepath.Dir(args[2]))
}

func TestCommandParserWrapperUnit(t *testing.T) {
	headers := []string{
		filepath.Join(t.TempDir(), "XPLMDefs.h"),
		filepath.Join(t.TempDir(), "XPLMPlugin.h"),
		filepath.Join(t.TempDir(), "XPWidgets.h"),
	}

	out, err := helperParser("cat").Generate(context.Background(), []string{"-xc"}, headers)
	require.NoError(t, err)

	want, err := WrapperSource(headers)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(out))
}

func TestCommandParserSharedHeaderExpandedOnce(t *testing.T) {
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("no C compiler on this host")
	}

	dir := t.TempDir()
	files := map[string]string{
		"XPLMDefs.h": `#ifndef _XPLMDefs_h_
#define _XPLMDefs_h_
typedef int XPLMPluginID;
enum { xplm_NoPlugin = -1 };
#endif
`,
		"XPLMPlugin.h": "#include \"XPLMDefs.h\"\nXPLMPluginID XPLMGetMyID(void);\n",
		"XPLMMenus.h":  "#include \"XPLMDefs.h\"\nint XPLMFindPluginsMenu(void);\n",
	}

	var headers []string
	for _, name := range []string{"XPLMDefs.h", "XPLMMenus.h", "XPLMPlugin.h"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(files[name]), 0o644))
		headers = append(headers, p)
	}

	out, err := NewCommandParser(cc, "-E", "-P").Generate(context.Background(), []string{"-xc", "-I" + dir}, headers)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(out), "typedef int XPLMPluginID"))
	assert.Less(t, strings.Index(string(out), "XPLMFindPluginsMenu"), strings.Index(string(out), "XPLMGetMyID"))

	var stderr bytes.Buffer

	check := exec.Command(cc, "-fsyntax-only", "-xc", "-")
	check.Stdin = bytes.NewReader(out)
	check.Stderr = &stderr
	require.NoError(t, check.Run(), stderr.String())
}

func TestCommandParserFailureCarriesStderr(t *testing.T) {
	_, err := helperParser("fail").Generate(context.Background(), nil, []string{"x.h"})
	require.Error(t, err)
	assert.True(t, diagnostic.IsKind(err, diagnostic.KindGeneration))
	assert.Contains(t, err.Error(), "unknown type name 'XPLMBogus'")
}

func TestCommandParserEmptyOutput(t *testing.T) {
	_, err := helperParser("empty").Generate(context.Background(), nil, []string{"x.h"})
	require.Error(t, err)
	assert.True(t, diagnostic.IsKind(err, diagnostic.KindGeneration))
	assert.Contains(t, err.Error(), "no output")
}

func TestCommandParserMissingTool(t *testing.T) {
	p := NewCommandParser("xplm-bindgen-no-such-parser")

	_, err := p.Generate(context.Background(), nil, []string{"x.h"})
	require.Error(t, err)
	assert.True(t, diagnostic.IsKind(err, diagnostic.KindGeneration))
}
