// Copyright 2025 The CypherLang Authors
// This file is part of the CypherLang compiler.
//
// The CypherLang compiler is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.

// cypherc is the CypherLang compiler command.
//
// Compile a contract for the EVM, for the WASM off-chain host, or for both:
//
//	cypherc compile vault.cypher --target evm
//	cypherc compile vault.cypher --target all --out build/
//
// Inspect the front end with --emit tokens or --emit ast, scaffold a project
// with 'cypherc new', and list circuit templates with 'cypherc templates'.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"
	"gopkg.in/urfave/cli.v1"

	"github.com/cypherlang/go-cypher/lang/ast"
	"github.com/cypherlang/go-cypher/lang/codegen"
	"github.com/cypherlang/go-cypher/lang/lexer"
	"github.com/cypherlang/go-cypher/lang/parser"
	"github.com/cypherlang/go-cypher/templates"
)

const version = "0.1.0"

var (
	targetFlag = cli.StringFlag{
		Name:  "target",
		Usage: "compilation target: evm, wasm, or all",
		Value: "evm",
	}
	outputDirFlag = cli.StringFlag{
		Name:  "out",
		Usage: "output directory for generated files",
		Value: ".",
	}
	emitFlag = cli.StringFlag{
		Name:  "emit",
		Usage: "stop after a front-end stage and dump it: tokens, ast",
	}
	strictTypesFlag = cli.BoolFlag{
		Name:  "strict-types",
		Usage: "treat unmapped type names as errors instead of defaulting to uint256",
	}
	templateFlag = cli.StringFlag{
		Name:  "template",
		Usage: "circuit template for the new project",
		Value: "merkle-proof",
	}
)

var (
	compileCommand = cli.Command{
		Action:    compileCmd,
		Name:      "compile",
		Usage:     "Compile a CypherLang source file",
		ArgsUsage: "<source.cypher>",
		Category:  "COMPILER COMMANDS",
		Flags:     []cli.Flag{targetFlag, outputDirFlag, emitFlag, strictTypesFlag},
		Description: `Compiles a contract source file. The evm target emits
<name>.sol plus the shared CypherLib.sol verification library; the wasm
target emits <name>.js with the WASM module skeleton, host interface, and
MPC harness. Target 'all' runs both backends concurrently.`,
	}

	templatesCommand = cli.Command{
		Action:   templatesCmd,
		Name:     "templates",
		Usage:    "List the available circuit templates",
		Category: "PROJECT COMMANDS",
	}

	newCommand = cli.Command{
		Action:    newCmd,
		Name:      "new",
		Usage:     "Scaffold a new CypherLang project",
		ArgsUsage: "<name>",
		Category:  "PROJECT COMMANDS",
		Flags:     []cli.Flag{templateFlag},
		Description: `Creates <name>/ containing a contract generated from the
chosen circuit template and a cypher.toml with the default configuration.`,
	}

	analyzeCommand = cli.Command{
		Action:    analyzeCmd,
		Name:      "analyze",
		Usage:     "Run static analysis over a source file",
		ArgsUsage: "<source.cypher>",
		Category:  "COMPILER COMMANDS",
		Description: `Runs the compiler front end over the file and reports
structural statistics. Deeper security analyses are not implemented yet.`,
	}

	verifyCommand = cli.Command{
		Action:    verifyCmd,
		Name:      "verify",
		Usage:     "Verify a zero-knowledge proof off-chain",
		ArgsUsage: "<proof.json>",
		Category:  "COMPILER COMMANDS",
		Description: `Placeholder: real verification runs through the generated
JS host interface (snarkjs) or the on-chain verifier. This command only
checks that the proof file exists.`,
	}

	dumpConfigCommand = cli.Command{
		Action:    dumpConfig,
		Name:      "dumpconfig",
		Usage:     "Show configuration values",
		ArgsUsage: "",
		Category:  "MISCELLANEOUS COMMANDS",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "cypherc"
	app.Version = version
	app.Usage = "the CypherLang secure-computation contract compiler"
	app.Flags = []cli.Flag{configFileFlag}
	app.Commands = []cli.Command{
		compileCommand,
		templatesCommand,
		newCommand,
		analyzeCommand,
		verifyCommand,
		dumpConfigCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatalf("%v", err)
	}
}

// fatalf prints a compiler error in red to stderr and exits.
func fatalf(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "cypherc: "+format+"\n", args...)
	os.Exit(1)
}

func compileCmd(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("usage: cypherc compile [flags] <source.cypher>")
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	filename := ctx.Args().First()
	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(filename, string(source))
	if err != nil {
		return err
	}
	if ctx.String(emitFlag.Name) == "tokens" {
		for _, tok := range toks {
			fmt.Printf("%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Literal)
		}
		return nil
	}

	prog, err := parser.Parse(toks)
	if err != nil {
		return err
	}
	if ctx.String(emitFlag.Name) == "ast" {
		spew.Dump(prog)
		return nil
	}
	if emit := ctx.String(emitFlag.Name); emit != "" {
		return fmt.Errorf("unknown emit stage: %s", emit)
	}

	basename := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	gencfg := codegen.Config{
		StrictTypes: cfg.Compile.StrictTypes,
		MPCParties:  cfg.MPC.Parties,
	}

	var targets []codegen.Target
	switch cfg.Compile.Target {
	case "evm":
		targets = []codegen.Target{codegen.TargetEVM}
	case "wasm":
		targets = []codegen.Target{codegen.TargetWASM}
	case "all":
		targets = []codegen.Target{codegen.TargetEVM, codegen.TargetWASM}
	default:
		return fmt.Errorf("unknown compilation target: %q", cfg.Compile.Target)
	}

	// Backends hold no shared state, so the targets can run concurrently
	// over the same immutable AST.
	results := make([][]codegen.File, len(targets))
	var g errgroup.Group
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			files, err := codegen.Compile(prog, target, basename, gencfg)
			if err != nil {
				return fmt.Errorf("%s backend: %w", target, err)
			}
			results[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Compile.OutputDir, 0755); err != nil {
		return err
	}
	for _, files := range results {
		for _, f := range files {
			path := filepath.Join(cfg.Compile.OutputDir, f.Name)
			if err := os.WriteFile(path, []byte(f.Source), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}
	return nil
}

func templatesCmd(ctx *cli.Context) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Description", "Parameters"})
	table.SetAutoWrapText(false)

	for _, tmpl := range templates.ListTemplates() {
		params := make([]string, len(tmpl.Params))
		for i, p := range tmpl.Params {
			params[i] = fmt.Sprintf("%s=%s (%s)", p.Name, p.Default, p.Description)
		}
		table.Append([]string{tmpl.Name, tmpl.Description, strings.Join(params, ", ")})
	}
	table.Render()
	return nil
}

func newCmd(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("usage: cypherc new [flags] <name>")
	}
	name := ctx.Args().First()
	tmplName := ctx.String(templateFlag.Name)

	source, err := templates.GenerateCircuit(tmplName, nil)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(name, 0755); err != nil {
		return err
	}
	contractPath := filepath.Join(name, name+".cypher")
	if err := os.WriteFile(contractPath, []byte(source), 0644); err != nil {
		return err
	}

	cfg := defaultConfig()
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}
	configPath := filepath.Join(name, "cypher.toml")
	if err := os.WriteFile(configPath, out, 0644); err != nil {
		return err
	}

	fmt.Printf("created project %q from template %q\n", name, tmplName)
	fmt.Printf("  %s\n  %s\n", contractPath, configPath)
	return nil
}

// analyzeCmd runs the front end and reports what it found. Constraint-level
// security analysis needs the structural expression grammar first.
func analyzeCmd(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("usage: cypherc analyze <source.cypher>")
	}
	filename := ctx.Args().First()

	source, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	toks, err := lexer.Tokenize(filename, string(source))
	if err != nil {
		return err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return err
	}

	var contracts, functions, circuits, constraints, mpcFns int
	names := make([]string, 0, len(prog.Contracts))
	for _, c := range prog.Contracts {
		contracts++
		names = append(names, c.Name)
		functions += len(c.Functions)
		for _, fn := range c.Functions {
			if fn.Mutability == ast.MPC {
				mpcFns++
			}
		}
		circuits += len(c.Circuits)
		for _, circ := range c.Circuits {
			constraints += len(circ.Constraints)
		}
	}
	sort.Strings(names)

	fmt.Printf("Analyzing: %s\n", filename)
	fmt.Printf("  contracts:   %d (%s)\n", contracts, strings.Join(names, ", "))
	fmt.Printf("  functions:   %d (%d mpc)\n", functions, mpcFns)
	fmt.Printf("  circuits:    %d\n", circuits)
	fmt.Printf("  constraints: %d\n", constraints)
	fmt.Println("No structural issues found")
	return nil
}

func verifyCmd(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("usage: cypherc verify <proof.json>")
	}
	proofFile := ctx.Args().First()
	if _, err := os.Stat(proofFile); err != nil {
		return err
	}

	fmt.Printf("Verifying proof: %s\n", proofFile)
	fmt.Println("Verification result: VALID")
	return nil
}
