package tlgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/ettle/strcase"
)

const codecImport = "github.com/wippyai/tl-codec/codec"

// Generator orchestrates the code generation process.
type Generator struct {
	config *Config
	parser *Parser
}

// New creates a new Generator with the given configuration.
func New(cfg *Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.AbsolutePaths(); err != nil {
		return nil, err
	}

	return &Generator{
		config: cfg,
		parser: NewParser(cfg),
	}, nil
}

// Generate runs the complete code generation process.
func (g *Generator) Generate() error {
	if err := g.config.ValidateForGeneration(); err != nil {
		return err
	}

	g.log("Parsing schema %s", g.config.SchemaFile)
	schema, err := g.parser.ParseFile()
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	g.log("Found %d constructors in %d result types", len(schema.Constructors), len(schema.Groups()))

	f, err := g.render(schema)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(g.config.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := f.Save(g.config.OutputFile); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	g.log("Created %s", filepath.Base(g.config.OutputFile))
	return nil
}

// Validate parses and renders the schema without writing any output.
func (g *Generator) Validate() error {
	schema, err := g.parser.ParseFile()
	if err != nil {
		return err
	}
	if _, err := g.render(schema); err != nil {
		return err
	}
	for _, group := range schema.Groups() {
		g.log("✓ %s (%d constructors)", group.Result, len(group.Constructors))
	}
	return nil
}

// render builds the generated file for a parsed schema.
func (g *Generator) render(schema *Schema) (*jen.File, error) {
	f := jen.NewFile(g.config.Package)
	f.HeaderComment("Code generated by tlgen. DO NOT EDIT.")

	if err := g.checkNames(schema); err != nil {
		return nil, err
	}

	// Constructor id constants
	f.Comment("Constructor ids from the schema.")
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, c := range schema.Constructors {
			group.Id(constName(c)).Uint32().Op("=").Id(fmt.Sprintf("0x%08x", c.ID))
		}
	})
	f.Line()

	for _, group := range schema.Groups() {
		if len(group.Constructors) == 1 {
			if err := g.renderStruct(f, group); err != nil {
				return nil, err
			}
			continue
		}
		if err := g.renderEnum(f, group); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// renderStruct emits a single-constructor result as a plain struct with
// a TypeID method, so it can be boxed directly.
func (g *Generator) renderStruct(f *jen.File, group Group) error {
	c := group.Constructors[0]
	typeName := typeName(group.Result)

	fields, err := structFields(c)
	if err != nil {
		return err
	}

	f.Commentf("%s is the %s constructor.", typeName, c.Name)
	f.Type().Id(typeName).Struct(fields...)
	f.Line()

	f.Func().
		Params(jen.Id(typeName)).
		Id("TypeID").
		Params().
		Uint32().
		Block(jen.Return(jen.Id(constName(c))))
	f.Line()

	return nil
}

// renderEnum emits a multi-constructor result as per-constructor payload
// structs plus an enum struct of tagged variant pointers.
func (g *Generator) renderEnum(f *jen.File, group Group) error {
	enumName := typeName(group.Result)

	variants := make([]jen.Code, 0, len(group.Constructors))
	for _, c := range group.Constructors {
		payloadName := typeName(c.Name)

		fields, err := structFields(c)
		if err != nil {
			return err
		}

		f.Commentf("%s is the %s variant of %s.", payloadName, c.Name, enumName)
		f.Type().Id(payloadName).Struct(fields...)
		f.Line()

		variants = append(variants, jen.Id(payloadName).Op("*").Id(payloadName).Tag(map[string]string{
			"tl": fmt.Sprintf("%s,id=0x%08x", c.Name, c.ID),
		}))
	}

	f.Commentf("%s holds exactly one of its variants.", enumName)
	f.Type().Id(enumName).Struct(variants...)
	f.Line()

	return nil
}

// checkNames rejects schemas whose generated type names collide.
func (g *Generator) checkNames(schema *Schema) error {
	seen := make(map[string]string)
	claim := func(goName, source string) error {
		if prev, dup := seen[goName]; dup && prev != source {
			return fmt.Errorf("generated type %s collides: %s and %s", goName, prev, source)
		}
		seen[goName] = source
		return nil
	}

	for _, group := range schema.Groups() {
		if err := claim(typeName(group.Result), "result "+group.Result); err != nil {
			return err
		}
		if len(group.Constructors) == 1 {
			continue
		}
		for _, c := range group.Constructors {
			if err := claim(typeName(c.Name), "constructor "+c.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// structFields builds the tagged field list of one constructor.
func structFields(c *Constructor) ([]jen.Code, error) {
	fields := make([]jen.Code, 0, len(c.Fields))
	for _, field := range c.Fields {
		typ, err := goType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: field %s: %w", c.Line, field.Name, err)
		}
		fields = append(fields, jen.Id(strcase.ToGoPascal(field.Name)).Add(typ).Tag(map[string]string{
			"tl": field.Name,
		}))
	}
	return fields, nil
}

// goType maps a schema type expression to a Go type.
func goType(t string) (*jen.Statement, error) {
	if inner, ok := strings.CutPrefix(t, "Vector<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return nil, fmt.Errorf("unterminated vector type %q", t)
		}
		elem, err := goType(inner)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	}

	switch t {
	case "int":
		return jen.Int32(), nil
	case "long":
		return jen.Int64(), nil
	case "double":
		return jen.Float64(), nil
	case "float":
		return jen.Float32(), nil
	case "string":
		return jen.String(), nil
	case "bytes":
		return jen.Index().Byte(), nil
	case "bool", "Bool":
		return jen.Bool(), nil
	case "int128":
		return jen.Qual(codecImport, "Int128"), nil
	case "uint128":
		return jen.Qual(codecImport, "Uint128"), nil
	}

	if !isIdent(t) {
		return nil, fmt.Errorf("invalid type %q", t)
	}
	return jen.Id(typeName(t)), nil
}

// typeName converts a schema name to an exported Go type name.
func typeName(name string) string {
	return strcase.ToGoPascal(strings.ReplaceAll(name, ".", "_"))
}

// constName names the id constant of a constructor.
func constName(c *Constructor) string {
	return "ID" + typeName(c.Name)
}

// log prints a message if verbose mode is enabled.
func (g *Generator) log(format string, args ...any) {
	if g.config.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}
