package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
	"github.com/yslang/ysc/codegen"
	"github.com/yslang/ysc/reader"
	"github.com/ztrue/tracerr"
)

var verboseFlag = &cli.BoolFlag{
	Name:    "verbose",
	Aliases: []string{"v"},
	Usage:   "debug logging and error stack traces",
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})
	return zerolog.New(zerolog.SyncWriter(out)).Level(level).With().Timestamp().Logger()
}

// fail reports err and turns it into exit status 1.
func fail(c *cli.Context, err error) error {
	if c.Bool("verbose") {
		tracerr.PrintSourceColor(err)
	} else {
		fmt.Fprintf(os.Stderr, "ysc: %s\n", err)
	}
	return cli.Exit("", 1)
}

func outputName(file string, m *manifest) string {
	if m != nil {
		return m.Package + ".ll"
	}
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".ll"
}

func main() {
	app := &cli.App{
		Name:    "ysc",
		Usage:   "ys compiler",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "init a directory",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("no package name provided", 1)
					}

					err := writeManifest(".", manifest{
						Package:  name,
						Compiler: "^" + version,
					})
					if err != nil {
						return fail(c, err)
					}
					return nil
				},
			},
			{
				Name:      "typeinfo",
				Usage:     "dump typeinfo from a compiled module",
				ArgsUsage: "LIB",
				Action: func(c *cli.Context) error {
					data, err := reader.ReadTypeInfo(c.Args().First(), codegen.TypeInfoSymbol)
					if err != nil {
						return fail(c, err)
					}

					info, err := codegen.DecodeTypeInfo(data)
					if err != nil {
						return fail(c, err)
					}
					repr.Println(info)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "build a file",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "where to write the IR (default: package or file name with .ll)",
					},
					&cli.BoolFlag{
						Name:  "tokens",
						Usage: "print the token stream and stop",
					},
					&cli.BoolFlag{
						Name:  "ast",
						Usage: "print the syntax tree and stop",
					},
					&cli.StringFlag{
						Name:  "ast-format",
						Value: "json",
						Usage: "json or yaml",
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the IR instead of writing it",
					},
					&cli.BoolFlag{
						Name:  "typeinfo",
						Usage: "embed function signatures in the module",
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "rebuild whenever the file changes",
					},
					verboseFlag,
				},
				Action: func(c *cli.Context) error {
					log := newLogger(c.Bool("verbose"))

					file := c.Args().First()
					if file == "" {
						return cli.Exit("no source file provided", 1)
					}

					m, err := readManifest(filepath.Dir(file))
					if err != nil {
						return fail(c, err)
					}
					if m != nil {
						if err := m.accepts(version); err != nil {
							return fail(c, err)
						}
						log.Debug().Str("package", m.Package).Msg("read manifest")
					}

					opts := buildOptions{
						file:      file,
						output:    c.String("output"),
						tokens:    c.Bool("tokens"),
						ast:       c.Bool("ast"),
						astFormat: c.String("ast-format"),
						dump:      c.Bool("dump"),
						typeInfo:  c.Bool("typeinfo"),
					}
					if opts.output == "" {
						opts.output = outputName(file, m)
					}

					if c.Bool("watch") {
						err = watch(c.Context, file, log, func() error {
							return build(opts, log)
						})
					} else {
						err = build(opts, log)
					}
					if err != nil {
						return fail(c, err)
					}
					return nil
				},
			},
			{
				Name:      "check",
				Usage:     "compile files without writing output",
				ArgsUsage: "FILE...",
				Flags:     []cli.Flag{verboseFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("no source files provided", 1)
					}

					log := newLogger(c.Bool("verbose"))
					if err := checkFiles(c.Context, c.Args().Slice(), log); err != nil {
						return cli.Exit("", 1)
					}
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
