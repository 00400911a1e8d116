package main

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(src), 0644))
	return path
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "answer.ys", "func main() i64 { return 42; }")
	out := filepath.Join(dir, "answer.ll")

	err := build(buildOptions{file: file, output: out, typeInfo: true}, zerolog.Nop())
	require.NoError(t, err)

	ll, err := ioutil.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(ll), "define i64 @main()")
	assert.Contains(t, string(ll), "__ys_types")
}

func TestBuildParseErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "bad.ys", "func main() i64 { return 42 }")

	err := build(buildOptions{file: file, output: filepath.Join(dir, "bad.ll")}, zerolog.Nop())
	require.Error(t, err)

	var errs parseErrors
	require.ErrorAs(t, err, &errs)
	require.NotEmpty(t, errs)
	assert.Equal(t, strings.Join(errs, "\n"), err.Error())
	for _, e := range errs {
		assert.Equal(t, 1, strings.Count(err.Error(), e), e)
	}
	assert.NoFileExists(t, filepath.Join(dir, "bad.ll"))
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.ys", "func f() i64 { return 1; }")
	other := writeSource(t, dir, "other.ys", "func g(a i64) i64 { return a * 2; }")
	bad := writeSource(t, dir, "bad.ys", "func f() nope { return 1; }")

	assert.NoError(t, checkFiles(context.Background(), []string{good, other}, zerolog.Nop()))
	assert.Error(t, checkFiles(context.Background(), []string{good, bad, other}, zerolog.Nop()))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "answer.ll", outputName("src/answer.ys", nil))
	assert.Equal(t, "hello.ll", outputName("src/answer.ys", &manifest{Package: "hello"}))
}
