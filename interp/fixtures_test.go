package interp

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/emberlang/ember/internal/fixtures"
	"github.com/emberlang/ember/parser"
)

// TestFixtureSuite runs every "exec"-stage entry in the shared fixture
// manifest through the interpreter and snapshots its stdout, generalizing
// the original CLI's --test mode (spec §6.2, SPEC_FULL.md §3) into a
// go-snaps-backed corpus shared with codegen's own fixture suite.
func TestFixtureSuite(t *testing.T) {
	manifestPath := "../testdata/fixtures/manifest.yaml"
	manifest, err := fixtures.Load(manifestPath)
	if err != nil {
		t.Fatalf("loading manifest: %v", err)
	}

	for _, fx := range manifest.Fixtures {
		if fx.Stage != fixtures.StageExec {
			continue
		}
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			src, err := fx.Source(manifestPath)
			if err != nil {
				t.Fatalf("loading fixture source: %v", err)
			}

			top, err := parser.ParseSource(src)
			if err != nil {
				if fx.ExpectError {
					snaps.MatchSnapshot(t, "parse error: "+err.Error())
					return
				}
				t.Fatalf("unexpected parse error: %v", err)
			}

			var out bytes.Buffer
			in := New(".", &out)
			var argv []string
			if fx.Argv != "" {
				argv = []string{fx.Argv}
			}
			_, err = in.EvalTopLevel(top, argv)
			if fx.ExpectError {
				if err == nil {
					t.Fatalf("expected an evaluation error, got none (stdout: %q)", out.String())
				}
				snaps.MatchSnapshot(t, "runtime error: "+err.Error())
				return
			}
			if err != nil {
				t.Fatalf("unexpected evaluation error: %v", err)
			}
			snaps.MatchSnapshot(t, out.String())
		})
	}
}
