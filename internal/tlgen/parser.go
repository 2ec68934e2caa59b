package tlgen

import (
	"fmt"
	"hash/crc32"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Field is a single named field of a constructor.
type Field struct {
	Name string
	Type string
}

// Constructor is one parsed schema declaration.
type Constructor struct {
	Name     string
	ID       uint32
	Explicit bool // the id was written in the source
	Fields   []Field
	Result   string
	Line     int
}

// Group collects the constructors that share a result type. A group
// with one constructor becomes a plain struct, a group with several
// becomes an enum.
type Group struct {
	Result       string
	Constructors []*Constructor
}

// Schema is the parsed form of a schema file.
type Schema struct {
	Constructors []*Constructor
}

// Groups returns the constructors grouped by result type, sorted by
// result name for stable output.
func (s *Schema) Groups() []Group {
	byResult := make(map[string][]*Constructor)
	var order []string
	for _, c := range s.Constructors {
		if _, ok := byResult[c.Result]; !ok {
			order = append(order, c.Result)
		}
		byResult[c.Result] = append(byResult[c.Result], c)
	}
	sort.Strings(order)

	groups := make([]Group, 0, len(order))
	for _, result := range order {
		groups = append(groups, Group{Result: result, Constructors: byResult[result]})
	}
	return groups
}

// Parser reads TL schema text into a Schema.
type Parser struct {
	config *Config
}

// NewParser creates a new Parser with the given configuration.
func NewParser(cfg *Config) *Parser {
	return &Parser{config: cfg}
}

// ParseFile parses the configured schema file.
func (p *Parser) ParseFile() (*Schema, error) {
	data, err := os.ReadFile(p.config.SchemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return p.Parse(string(data))
}

// Parse parses schema text. Declarations end with a semicolon and may
// span lines; // comments run to the end of the line.
func (p *Parser) Parse(src string) (*Schema, error) {
	schema := &Schema{}
	seen := make(map[string]int)

	line := 1
	start := 1
	var decl strings.Builder
	rest := src
	for len(rest) > 0 {
		switch {
		case strings.HasPrefix(rest, "//"):
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				rest = rest[i:]
			} else {
				rest = ""
			}

		case rest[0] == ';':
			c, err := parseConstructor(strings.TrimSpace(decl.String()), start)
			if err != nil {
				return nil, err
			}
			if prev, dup := seen[c.Name]; dup {
				return nil, fmt.Errorf("line %d: constructor %q already declared on line %d", c.Line, c.Name, prev)
			}
			seen[c.Name] = c.Line
			schema.Constructors = append(schema.Constructors, c)
			decl.Reset()
			rest = rest[1:]

		case isSpace(rest[0]):
			if rest[0] == '\n' {
				line++
			}
			if decl.Len() > 0 {
				decl.WriteByte(rest[0])
			}
			rest = rest[1:]

		default:
			if decl.Len() == 0 {
				start = line
			}
			decl.WriteByte(rest[0])
			rest = rest[1:]
		}
	}

	if strings.TrimSpace(decl.String()) != "" {
		return nil, fmt.Errorf("line %d: declaration missing terminating semicolon", start)
	}
	return schema, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// parseConstructor parses one `name#hexid field:type ... = Result`
// declaration. A missing #hexid is filled in with the CRC32 of the
// normalized declaration text.
func parseConstructor(decl string, line int) (*Constructor, error) {
	tokens := strings.Fields(decl)
	if len(tokens) < 3 {
		return nil, fmt.Errorf("line %d: declaration %q is too short", line, decl)
	}
	if tokens[len(tokens)-2] != "=" {
		return nil, fmt.Errorf("line %d: declaration %q has no `= Result` clause", line, decl)
	}

	c := &Constructor{
		Result: tokens[len(tokens)-1],
		Line:   line,
	}
	if !isIdent(c.Result) {
		return nil, fmt.Errorf("line %d: invalid result name %q", line, c.Result)
	}

	c.Name = tokens[0]
	if name, hexID, ok := strings.Cut(tokens[0], "#"); ok {
		id, err := strconv.ParseUint(hexID, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid constructor id %q: %w", line, hexID, err)
		}
		c.Name = name
		c.ID = uint32(id)
		c.Explicit = true
	}
	if !isIdent(c.Name) {
		return nil, fmt.Errorf("line %d: invalid constructor name %q", line, c.Name)
	}

	for _, tok := range tokens[1 : len(tokens)-2] {
		name, typ, ok := strings.Cut(tok, ":")
		if !ok || name == "" || typ == "" {
			return nil, fmt.Errorf("line %d: invalid field %q, want name:type", line, tok)
		}
		if !isIdent(name) {
			return nil, fmt.Errorf("line %d: invalid field name %q", line, name)
		}
		c.Fields = append(c.Fields, Field{Name: name, Type: typ})
	}

	if !c.Explicit {
		c.ID = computeID(c)
	}
	return c, nil
}

// computeID derives a constructor id from the normalized declaration,
// the way TL fills in omitted ids.
func computeID(c *Constructor) uint32 {
	var b strings.Builder
	b.WriteString(c.Name)
	for _, f := range c.Fields {
		b.WriteByte(' ')
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(f.Type)
	}
	b.WriteString(" = ")
	b.WriteString(c.Result)
	return crc32.ChecksumIEEE([]byte(b.String()))
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_' || c == '.':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
