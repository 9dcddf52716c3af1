// Package derive generates a pkg/mutator composition for a plain struct
// type, the concrete stand-in for the derive macro spec.md section 1 lists
// as an assumed-to-exist external collaborator ("derive macros that
// synthesize product/sum-type mutators"). It walks a struct declaration
// with go/packages the same way internal/testrunner/mockgen walks an
// interface declaration, then emits a mutator.Map wrapping a Tuple2/3/4
// composition instead of a mock implementation.
package derive

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// GenOptions controls derived-mutator code generation.
type GenOptions struct {
	// Name of the struct to derive a mutator for.
	StructName string
	// Package name of the generated code. If empty, uses the source
	// package name + "fuzz" suffix.
	PackageName string
	// Destination path for writing the generated file. If empty, only
	// return the string.
	Destination string
	// Source patterns passed to go/packages (e.g. []string{"./..."}).
	SourcePatterns []string
	// Build tags, comma-joined onto the packages.Config build flags.
	BuildTags []string
}

// Generate produces a mutator.Mutator composition for the named struct.
func Generate(opts GenOptions) (string, error) {
	if strings.TrimSpace(opts.StructName) == "" {
		return "", errors.New("StructName is required")
	}

	patterns := opts.SourcePatterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax}
	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = append(cfg.BuildFlags, fmt.Sprintf("-tags=%s", strings.Join(opts.BuildTags, ",")))
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return "", err
	}

	if packages.PrintErrors(pkgs) > 0 {
		return "", errors.New("failed to load packages")
	}

	var (
		foundPkg *packages.Package
		strct    *types.Struct
		named    *types.Named
	)

	for _, p := range pkgs {
		if p.Types == nil || p.Types.Scope() == nil {
			continue
		}

		obj := p.Types.Scope().Lookup(opts.StructName)
		if obj == nil {
			continue
		}

		n, ok := obj.Type().(*types.Named)
		if !ok {
			continue
		}

		s, ok := n.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		strct, named, foundPkg = s, n, p

		break
	}

	if foundPkg == nil || strct == nil {
		return "", fmt.Errorf("struct %q not found in provided source patterns", opts.StructName)
	}

	fields, err := collectFields(strct)
	if err != nil {
		return "", err
	}

	genPkgName := opts.PackageName
	if genPkgName == "" {
		genPkgName = foundPkg.Name + "fuzz"
	}

	code, err := renderMutator(genPkgName, named, foundPkg.PkgPath, fields)
	if err != nil {
		return "", err
	}

	if opts.Destination != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Destination), 0o755); err != nil {
			return "", err
		}

		if err := os.WriteFile(opts.Destination, []byte(code), 0o644); err != nil {
			return "", err
		}
	}

	return code, nil
}

type field struct {
	name string
	typ  types.Type
}

// collectFields requires 2 to 4 exported fields of a mutable kind, the
// same arity ceiling pkg/mutator's Tuple2/Tuple3/Tuple4 impose — there is
// no Tuple5 or a variadic N-ary tuple mutator, so a wider struct is
// reported rather than silently truncated.
func collectFields(s *types.Struct) ([]field, error) {
	var fields []field

	for i := 0; i < s.NumFields(); i++ {
		v := s.Field(i)
		if !v.Exported() {
			continue
		}

		if !supportedKind(v.Type()) {
			return nil, fmt.Errorf("field %s has unsupported type %s", v.Name(), v.Type())
		}

		fields = append(fields, field{name: v.Name(), typ: v.Type()})
	}

	if len(fields) < 2 || len(fields) > 4 {
		return nil, fmt.Errorf("struct has %d mutable fields, need 2 to 4 (Tuple2/Tuple3/Tuple4 only)", len(fields))
	}

	return fields, nil
}

func supportedKind(t types.Type) bool {
	switch ut := t.Underlying().(type) {
	case *types.Basic:
		switch ut.Kind() {
		case types.Bool, types.String,
			types.Int8, types.Int16, types.Int32, types.Int64,
			types.Uint8, types.Uint16, types.Uint32, types.Uint64:
			return true
		default:
			return false
		}
	case *types.Slice:
		elem, ok := ut.Elem().Underlying().(*types.Basic)
		return ok && elem.Kind() == types.Uint8
	default:
		return false
	}
}

// fieldMutatorExpr renders the mutator constructor call for one field,
// wrapping string fields through mutator.Map over mutator.NewBytes since
// pkg/mutator has no string mutator; []byte fields use mutator.NewBytes
// directly.
func fieldMutatorExpr(t types.Type) string {
	switch ut := t.Underlying().(type) {
	case *types.Basic:
		switch ut.Kind() {
		case types.Bool:
			return "mutator.NewBool()"
		case types.String:
			return "mutator.NewMap[string, []byte](mutator.NewBytes(0, 256), func(s string) []byte { return []byte(s) }, func(b []byte) string { return string(b) })"
		default:
			return fmt.Sprintf("mutator.NewInt[%s](%d)", types.TypeString(t, qualifier), intBits(ut.Kind()))
		}
	case *types.Slice:
		return "mutator.NewBytes(0, 256)"
	default:
		panic("derive: unreachable, supportedKind already filtered " + t.String())
	}
}

func intBits(k types.BasicKind) int {
	switch k {
	case types.Int8, types.Uint8:
		return 8
	case types.Int16, types.Uint16:
		return 16
	case types.Int32, types.Uint32:
		return 32
	default:
		return 64
	}
}

// shapeFor returns the mutator.Pair/Triple/Quad type name, its
// mutator.NewTupleN constructor name, and the shape's field names, for a
// struct with n mutable fields.
func shapeFor(n int) (typeName, ctorName string, fieldNames []string) {
	switch n {
	case 2:
		return "Pair", "Tuple2", []string{"First", "Second"}
	case 3:
		return "Triple", "Tuple3", []string{"First", "Second", "Third"}
	default:
		return "Quad", "Tuple4", []string{"First", "Second", "Third", "Fourth"}
	}
}

func renderMutator(pkg string, named *types.Named, origPkgPath string, fields []field) (string, error) {
	obj := named.Obj()
	name := obj.Name()
	origPkgName := obj.Pkg().Name()

	typeParams := make([]string, len(fields))
	for i, f := range fields {
		typeParams[i] = types.TypeString(f.typ, qualifier)
	}

	joinedParams := strings.Join(typeParams, ", ")
	typeName, ctorName, fieldNames := shapeFor(len(fields))

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	buf.WriteString("import (\n")
	fmt.Fprintf(&buf, "\t%q\n\n", origPkgPath)
	buf.WriteString("\t\"github.com/orizon-lang/fuzzcheck/pkg/mutator\"\n")
	buf.WriteString(")\n\n")

	fmt.Fprintf(&buf, "// %sMutator builds a fuzzing mutator for %s.%s by composing one field\n", name, origPkgName, name)
	buf.WriteString("// mutator per struct field through mutator.Map.\n")
	fmt.Fprintf(&buf, "func %sMutator() mutator.Mutator[%s.%s] {\n", name, origPkgName, name)
	fmt.Fprintf(&buf, "\treturn mutator.NewMap[%s.%s, mutator.%s[%s]](\n", origPkgName, name, typeName, joinedParams)
	fmt.Fprintf(&buf, "\t\tmutator.New%s[%s](\n", ctorName, joinedParams)

	for _, f := range fields {
		fmt.Fprintf(&buf, "\t\t\t%s,\n", fieldMutatorExpr(f.typ))
	}

	buf.WriteString("\t\t),\n")

	fmt.Fprintf(&buf, "\t\tfunc(v %s.%s) mutator.%s[%s] {\n", origPkgName, name, typeName, joinedParams)
	fmt.Fprintf(&buf, "\t\t\treturn mutator.%s[%s]{", typeName, joinedParams)

	for i, f := range fields {
		fmt.Fprintf(&buf, "%s: v.%s, ", fieldNames[i], f.name)
	}

	buf.WriteString("}\n\t\t},\n")

	fmt.Fprintf(&buf, "\t\tfunc(q mutator.%s[%s]) %s.%s {\n", typeName, joinedParams, origPkgName, name)
	fmt.Fprintf(&buf, "\t\t\treturn %s.%s{", origPkgName, name)

	for i, f := range fields {
		fmt.Fprintf(&buf, "%s: q.%s, ", f.name, fieldNames[i])
	}

	buf.WriteString("}\n\t\t},\n")
	buf.WriteString("\t)\n}\n")

	fmted, err := format.Source(buf.Bytes())
	if err != nil {
		// Return unformatted for easier debugging, same fallback
		// internal/testrunner/mockgen.renderMock uses.
		return buf.String(), nil
	}

	return string(fmted), nil
}

func qualifier(p *types.Package) string {
	if p == nil {
		return ""
	}

	return p.Name()
}
