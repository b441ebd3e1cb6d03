package codegen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/emberlang/ember/internal/fixtures"
	"github.com/emberlang/ember/parser"
)

// TestFixtureSuite runs every "comp"-stage entry in the shared fixture
// manifest through the code generator and snapshots the emitted C, the
// codegen-side half of the corpus interp/fixtures_test.go also reads.
func TestFixtureSuite(t *testing.T) {
	manifestPath := "../testdata/fixtures/manifest.yaml"
	manifest, err := fixtures.Load(manifestPath)
	if err != nil {
		t.Fatalf("loading manifest: %v", err)
	}

	for _, fx := range manifest.Fixtures {
		if fx.Stage != fixtures.StageComp {
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
				t.Fatalf("unexpected parse error: %v", err)
			}

			out, err := Generate(top)
			if fx.ExpectError {
				if err == nil {
					t.Fatalf("expected a codegen error, got none")
				}
				snaps.MatchSnapshot(t, "codegen error: "+err.Error())
				return
			}
			if err != nil {
				t.Fatalf("unexpected codegen error: %v", err)
			}
			snaps.MatchSnapshot(t, out)
		})
	}
}
