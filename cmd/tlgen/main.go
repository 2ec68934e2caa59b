package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/tl-codec/internal/tlgen"
)

func main() {
	var (
		schemaFile   = flag.String("schema", "", "Path to TL schema file")
		outFile      = flag.String("out", "", "Output Go file")
		pkgName      = flag.String("pkg", "schema", "Package name for generated code")
		validateOnly = flag.Bool("validate", false, "Validate the schema and exit")
		verbose      = flag.Bool("v", false, "Verbose output")
		interactive  = flag.Bool("i", false, "Interactive schema browser")
	)
	flag.Parse()

	if *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: tlgen -schema <file.tl> -out <file.go> [-pkg name]")
		fmt.Fprintln(os.Stderr, "       tlgen -schema <file.tl> -validate")
		fmt.Fprintln(os.Stderr, "       tlgen -schema <file.tl> -i  (interactive browser)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*schemaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*schemaFile, *outFile, *pkgName, *validateOnly, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaFile, outFile, pkgName string, validateOnly, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l
	}
	defer logger.Sync()

	cfg := &tlgen.Config{
		SchemaFile: schemaFile,
		OutputFile: outFile,
		Package:    pkgName,
		Verbose:    verbose,
	}

	gen, err := tlgen.New(cfg)
	if err != nil {
		return fmt.Errorf("create generator: %w", err)
	}

	if validateOnly {
		if err := gen.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		fmt.Printf("Schema OK: %s\n", schemaFile)
		return nil
	}

	if err := gen.Generate(); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	logger.Info("generated",
		zap.String("schema", cfg.SchemaFile),
		zap.String("out", cfg.OutputFile),
		zap.String("package", cfg.Package),
	)

	fmt.Printf("Generated %s\n", outFile)
	return nil
}
