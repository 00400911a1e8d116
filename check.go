package main

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/yslang/ysc/codegen"
	"golang.org/x/sync/errgroup"
)

// checkFiles compiles every file without writing output. Each file gets its
// own lexer, parser and generator; all files are reported, the first failure
// is returned.
func checkFiles(ctx context.Context, files []string, log zerolog.Logger) error {
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			_, err := compileFile(file, codegen.Settings{Logger: &log})
			if err != nil {
				log.Error().Err(err).Str("file", file).Msg("check failed")
				return err
			}

			log.Info().Str("file", file).Msg("ok")
			return nil
		})
	}

	return g.Wait()
}
