// Package tlgen generates Go declarations from TL schema text.
//
// The package reads a schema of constructor declarations
// (`name#hexid field:type ... = Result;`), groups constructors by their
// result type, and emits Go structs, enum wrappers, and type id
// constants ready for the codec.
//
// Basic usage:
//
//	cfg := &tlgen.Config{
//		SchemaFile: "./api.tl",
//		OutputFile: "./gen/api.gen.go",
//		Package:    "api",
//	}
//
//	gen, err := tlgen.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := gen.Generate(); err != nil {
//		log.Fatal(err)
//	}
package tlgen

import (
	"fmt"
	"path/filepath"
)

// Config holds the configuration for the schema generator.
type Config struct {
	// SchemaFile is the TL schema file to read. This is required.
	SchemaFile string

	// OutputFile is the Go file to write. This is required for
	// generation.
	OutputFile string

	// Package is the Go package name for generated code.
	// Defaults to "schema" if not specified.
	Package string

	// Verbose enables detailed logging during generation.
	Verbose bool
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.SchemaFile == "" {
		return fmt.Errorf("schema file is required")
	}

	if c.Package == "" {
		c.Package = "schema"
	}

	return nil
}

// ValidateForGeneration checks that the configuration is valid for code
// generation.
func (c *Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.OutputFile == "" {
		return fmt.Errorf("output file is required for generation")
	}

	return nil
}

// AbsolutePaths converts relative paths to absolute paths.
func (c *Config) AbsolutePaths() error {
	var err error

	if c.SchemaFile != "" {
		if c.SchemaFile, err = filepath.Abs(c.SchemaFile); err != nil {
			return fmt.Errorf("failed to resolve schema file: %w", err)
		}
	}

	if c.OutputFile != "" {
		if c.OutputFile, err = filepath.Abs(c.OutputFile); err != nil {
			return fmt.Errorf("failed to resolve output file: %w", err)
		}
	}

	return nil
}
