package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/crosscover/pkg/config"
	"github.com/matzehuels/crosscover/pkg/coverage"
	"github.com/matzehuels/crosscover/pkg/cross"
	"github.com/matzehuels/crosscover/pkg/locus"
	"github.com/matzehuels/crosscover/pkg/pipeline"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"select", "informative", "render", "config", "cache", "completion"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		var out bytes.Buffer
		c := New(&bytes.Buffer{}, LogInfo)
		c.Out = &out
		root := c.RootCommand()
		root.SetArgs([]string{"completion", shell})
		require.NoError(t, root.Execute(), shell)
		assert.Contains(t, out.String(), "crosscover", shell)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	c.Out = &bytes.Buffer{}
	root := c.RootCommand()
	root.SetArgs([]string{"completion", "tcsh"})
	root.SetErr(&bytes.Buffer{})
	assert.Error(t, root.Execute(), "unknown shells are rejected")
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := cacheDir()
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".cache", "crosscover"), dir)

	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err = cacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "crosscover"), dir)
}

func TestCacheLocation(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = "/var/cache/cc"
	assert.Equal(t, "/var/cache/cc", cacheLocation(cfg))

	cfg.Cache.Backend = config.BackendRedis
	cfg.Cache.RedisAddr = "localhost:6379"
	cfg.Cache.RedisDB = 2
	assert.Equal(t, "redis://localhost:6379/2", cacheLocation(cfg))

	cfg.Cache.Backend = config.BackendNone
	assert.Equal(t, "none", cacheLocation(cfg))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"txt"}},
		{"svg", []string{"svg"}},
		{"txt, svg,,png ", []string{"txt", "svg", "png"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFormats(tt.in), "parseFormats(%q)", tt.in)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "data/calls.txt", "data/calls"},
		{"out/picks.svg", "calls.txt", "out/picks"},
		{"out/picks", "calls.txt", "out/picks"},
		{"out/picks.v2", "calls.txt", "out/picks.v2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, basePath(tt.output, tt.fallback))
	}
}

func TestRunFlagsApply(t *testing.T) {
	var f runFlags
	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "")
	cmd.Flags().IntVarP(&f.maxK, "max-k", "k", 0, "")
	f.registerRender(cmd)
	f.registerAssay(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-s", "exhaustive", "-k", "3", "-f", "tsv,svg", "--hom-a", "0"}))

	cfg := config.Default()
	cfg.Width = 1000
	f.apply(cmd, cfg)

	assert.Equal(t, "exhaustive", cfg.Strategy)
	assert.Equal(t, 3, cfg.MaxK)
	assert.Equal(t, []string{"tsv", "svg"}, cfg.Formats)
	assert.Equal(t, "0", cfg.Calls.HomA)
	assert.Equal(t, float64(1000), cfg.Width, "unset flags keep config values")
	assert.Empty(t, cfg.Calls.Het)
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "picks")
	artifacts := map[string][]byte{
		pipeline.FormatText:    []byte("1\tA x B\t+2\t2\n"),
		pipeline.FormatTSV:     []byte("step\n"),
		pipeline.FormatNetwork: []byte("<svg/>"),
	}
	formats := []string{pipeline.FormatText, pipeline.FormatTSV, pipeline.FormatNetwork}

	c := New(&bytes.Buffer{}, LogInfo)
	require.NoError(t, c.writeArtifacts(artifacts, formats, base, false))

	assert.NoFileExists(t, base+".txt", "txt is only written with an explicit output")
	assert.FileExists(t, base+".tsv")
	assert.FileExists(t, base+".network.svg")

	require.NoError(t, c.writeArtifacts(artifacts, formats, base, true))
	data, err := os.ReadFile(base + ".txt")
	require.NoError(t, err)
	assert.Equal(t, "1\tA x B\t+2\t2\n", string(data))
}

func testMap(t *testing.T) (*coverage.Map, []cross.Cross) {
	t.Helper()
	m := coverage.New(locus.NewIndex("L1", "L2", "L3"))
	ab, ac := cross.New("A", "B"), cross.New("A", "C")
	require.NoError(t, m.SetNames(ab, "L1", "L2"))
	require.NoError(t, m.SetNames(ac, "L3"))
	return m, []cross.Cross{ab, ac}
}

func TestInformativeTable(t *testing.T) {
	m, crosses := testMap(t)

	out := informativeTable(m, crosses, false)
	assert.Contains(t, out, "A x B")
	assert.Contains(t, out, "Informative")
	assert.NotContains(t, out, "L1")

	out = informativeTable(m, crosses, true)
	assert.Contains(t, out, "L1, L2")
	assert.Contains(t, out, "L3")
}

func TestCandidateListModel(t *testing.T) {
	m, crosses := testMap(t)
	model := NewCandidateListModel(crosses, m)
	assert.Equal(t, []int{2, 1}, model.Counts)
	assert.Nil(t, model.Chosen(), "nothing is chosen before confirming")

	press := func(model CandidateListModel, key tea.KeyMsg) CandidateListModel {
		next, _ := model.Update(key)
		return next.(CandidateListModel)
	}
	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	model = press(model, runes("j"))
	assert.Equal(t, 1, model.Cursor)
	model = press(model, runes("x"))
	assert.Equal(t, []bool{true, false}, model.Picked)

	model = press(model, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, model.Confirmed)
	assert.Equal(t, []cross.Cross{crosses[0]}, model.Chosen())

	assert.True(t, strings.Contains(model.View(), "1 picked"))
}

func TestCandidateListModelToggleAll(t *testing.T) {
	m, crosses := testMap(t)
	model := NewCandidateListModel(crosses, m)

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	model = next.(CandidateListModel)
	assert.Equal(t, []bool{false, false}, model.Picked)

	next, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = next.(CandidateListModel)
	assert.False(t, model.Confirmed, "enter with nothing picked is ignored")
}
