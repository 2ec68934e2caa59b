package tlgen

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// The generator renders through jennifer, which gofmt-formats its output
// with column alignment; collapse whitespace runs before substring checks.
var wsRe = regexp.MustCompile(`\s+`)

func normalizeWS(s string) string {
	return wsRe.ReplaceAllString(s, " ")
}

const testSchema = `
// a standalone result
user#d23c81a3 id:long name:string score:double tags:Vector<string> = User;

// a two-variant result
inputPeerEmpty#7f3b18ea = InputPeer;
inputPeerChat#35a95cb9 chat_id:long access_hash:int128 = InputPeer;
`

func generate(t *testing.T, schema string) string {
	t.Helper()
	dir := t.TempDir()

	schemaFile := filepath.Join(dir, "api.tl")
	if err := os.WriteFile(schemaFile, []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "gen", "api.gen.go")
	gen, err := New(&Config{
		SchemaFile: schemaFile,
		OutputFile: out,
		Package:    "api",
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := gen.Generate(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestGenerator_Struct(t *testing.T) {
	src := generate(t, testSchema)

	for _, want := range []string{
		"// Code generated by tlgen. DO NOT EDIT.",
		"package api",
		"IDUser uint32 = 0xd23c81a3",
		"type User struct",
		"ID int64 `tl:\"id\"`",
		"Name string `tl:\"name\"`",
		"Score float64 `tl:\"score\"`",
		"Tags []string `tl:\"tags\"`",
		"func (User) TypeID() uint32",
		"return IDUser",
	} {
		if !strings.Contains(normalizeWS(src), want) {
			t.Errorf("output is missing %q\n%s", want, src)
		}
	}
}

func TestGenerator_Enum(t *testing.T) {
	src := generate(t, testSchema)

	for _, want := range []string{
		"IDInputPeerEmpty uint32 = 0x7f3b18ea",
		"IDInputPeerChat uint32 = 0x35a95cb9",
		"type InputPeerEmpty struct",
		"type InputPeerChat struct",
		"ChatID int64 `tl:\"chat_id\"`",
		"AccessHash codec.Int128 `tl:\"access_hash\"`",
		"type InputPeer struct",
		"InputPeerEmpty *InputPeerEmpty `tl:\"inputPeerEmpty,id=0x7f3b18ea\"`",
		"InputPeerChat *InputPeerChat `tl:\"inputPeerChat,id=0x35a95cb9\"`",
		"github.com/wippyai/tl-codec/codec",
	} {
		if !strings.Contains(normalizeWS(src), want) {
			t.Errorf("output is missing %q\n%s", want, src)
		}
	}
}

func TestGenerator_NameCollision(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "api.tl")
	src := "user#01 = Account;\naccount#02 = Account;\naccountOther#03 x:int = Account2;\naccount2#04 y:int = Account2;"
	if err := os.WriteFile(schemaFile, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	gen, err := New(&Config{
		SchemaFile: schemaFile,
		OutputFile: filepath.Join(dir, "out.gen.go"),
	})
	if err != nil {
		t.Fatal(err)
	}
	err = gen.Generate()
	if err == nil || !strings.Contains(err.Error(), "collides") {
		t.Errorf("err = %v, want collision", err)
	}
}

func TestGenerator_ValidateNeedsNoOutput(t *testing.T) {
	dir := t.TempDir()
	schemaFile := filepath.Join(dir, "api.tl")
	if err := os.WriteFile(schemaFile, []byte(testSchema), 0644); err != nil {
		t.Fatal(err)
	}

	gen, err := New(&Config{SchemaFile: schemaFile})
	if err != nil {
		t.Fatal(err)
	}
	if err := gen.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := gen.Generate(); err == nil {
		t.Error("Generate without an output file should fail")
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{SchemaFile: "x.tl"}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Package != "schema" {
		t.Errorf("package = %q", cfg.Package)
	}

	if err := (&Config{}).Validate(); err == nil {
		t.Error("missing schema file should fail")
	}
}

func TestGoType_Errors(t *testing.T) {
	if _, err := goType("Vector<string"); err == nil {
		t.Error("unterminated vector should fail")
	}
	if _, err := goType("no-good"); err == nil {
		t.Error("invalid identifier should fail")
	}
}
