package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/rs/zerolog"
	"github.com/yslang/ysc/codegen"
	"github.com/yslang/ysc/dump"
	"github.com/yslang/ysc/lexer"
	"github.com/yslang/ysc/parser"
)

type buildOptions struct {
	file      string
	output    string
	tokens    bool
	ast       bool
	astFormat string
	dump      bool
	typeInfo  bool
}

// parseErrors is returned when the parser recorded token mismatches. Its
// message lists every mismatch, one per line.
type parseErrors []string

func (e parseErrors) Error() string {
	return strings.Join(e, "\n")
}

func compileFile(file string, s codegen.Settings) (*ir.Module, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	prog, errs, err := parser.ParseReader(handle, file)
	if err != nil {
		return nil, err
	}
	if len(errs) != 0 {
		return nil, parseErrors(errs)
	}

	return codegen.Generate(prog, s)
}

func printTokens(file string) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}

	toks, err := lexer.FromString(string(data), file).All()
	for _, tok := range toks {
		repr.Println(tok)
	}
	return err
}

func printAST(file, format string) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return err
	}

	prog, errs, err := parser.ParseString(string(data), file)
	if err != nil {
		return err
	}

	switch format {
	case "json", "":
		fmt.Println(dump.Format(prog.Dump()))
	case "yaml":
		out, err := dump.YAML(prog.Dump())
		if err != nil {
			return err
		}
		fmt.Print(out)
	default:
		return fmt.Errorf("unknown ast format %q", format)
	}

	if len(errs) != 0 {
		return parseErrors(errs)
	}
	return nil
}

func build(opts buildOptions, log zerolog.Logger) error {
	if opts.tokens {
		return printTokens(opts.file)
	}
	if opts.ast {
		return printAST(opts.file, opts.astFormat)
	}

	mod, err := compileFile(opts.file, codegen.Settings{
		TypeInfo: opts.typeInfo,
		Logger:   &log,
	})
	if err != nil {
		return err
	}

	if opts.dump {
		fmt.Println(mod.String())
		return nil
	}

	if err := ioutil.WriteFile(opts.output, []byte(mod.String()), 0644); err != nil {
		return err
	}
	log.Info().Str("file", opts.file).Str("output", opts.output).Msg("built")
	return nil
}
