// Package runtime embeds the C runtime that compiled ember programs link
// against (spec §4.8). cmd/ember's comp-e2e subcommand writes these
// sources into a scratch directory alongside the generated C and invoke cc
// over the pair.
package runtime

import "embed"

//go:embed c/*.c c/*.h
var Sources embed.FS

// Files lists the embedded runtime source files in a fixed, deterministic
// order so callers that materialize them to disk get reproducible output.
var Files = []string{
	"c/datatype.h",
	"c/runtime.h",
	"c/rtutil.h",
	"c/dictionary.h",
	"c/constructors.c",
	"c/rtutil.c",
	"c/dictionary.c",
	"c/op.c",
	"c/runtime.c",
}
