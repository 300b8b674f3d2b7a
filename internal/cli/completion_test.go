package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/kgraph/pkg/graph"
)

func TestFocusCandidates(t *testing.T) {
	g := graph.Sample()
	g.Nodes = append(g.Nodes, graph.Node{ID: "x1"})

	tests := []struct {
		prefix string
		want   []string
	}{
		{"n6", []string{"n6\tData Protection Impact Assessment"}},
		{"x", []string{"x1"}},
		{"zz", nil},
	}
	for _, tt := range tests {
		got := focusCandidates(g, tt.prefix)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("focusCandidates(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
	if got := focusCandidates(graph.Sample(), ""); len(got) != 6 {
		t.Errorf("empty prefix offered %d ids, want 6", len(got))
	}
}

func TestCompleteFocusFlag(t *testing.T) {
	input := writeSampleGraph(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"__complete", "rings", input, "--focus", "n"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{"n1\tData Privacy Statement", "n6\t"} {
		if !strings.Contains(got, want) {
			t.Errorf("completion missing %q:\n%s", want, got)
		}
	}
}

func TestCompletionScript(t *testing.T) {
	out, err := runCLI(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "__start_kgraph") {
		t.Errorf("bash script does not register kgraph:\n%.200s", out)
	}
}
