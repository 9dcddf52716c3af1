package derive

import (
	"strings"
	"testing"
)

const samplePkg = "github.com/orizon-lang/fuzzcheck/internal/derive/testdata/sample"

func TestGeneratePointMutator(t *testing.T) {
	code, err := Generate(GenOptions{
		StructName:     "Point",
		SourcePatterns: []string{samplePkg},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"package samplefuzz",
		"func PointMutator() mutator.Mutator[sample.Point] {",
		"mutator.NewMap[sample.Point, mutator.Triple[uint8, bool, string]](",
		"mutator.NewTuple3[uint8, bool, string](",
		"mutator.NewInt[uint8](8)",
		"mutator.NewBool()",
		"mutator.NewMap[string, []byte](mutator.NewBytes(0, 256)",
	} {
		if !strings.Contains(code, want) {
			t.Fatalf("generated code missing %q:\n%s", want, code)
		}
	}
}

func TestGenerateRejectsWideStruct(t *testing.T) {
	_, err := Generate(GenOptions{
		StructName:     "Wide",
		SourcePatterns: []string{samplePkg},
	})
	if err == nil {
		t.Fatal("expected an error deriving a mutator for a 5-field struct")
	}
}

func TestGenerateRequiresStructName(t *testing.T) {
	if _, err := Generate(GenOptions{SourcePatterns: []string{samplePkg}}); err == nil {
		t.Fatal("expected an error with no StructName")
	}
}

func TestGenerateUnknownStruct(t *testing.T) {
	_, err := Generate(GenOptions{
		StructName:     "DoesNotExist",
		SourcePatterns: []string{samplePkg},
	})
	if err == nil {
		t.Fatal("expected an error for a struct not present in the source patterns")
	}
}
