package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v2"
)

const (
	version      = "0.1.0"
	manifestFile = "ys.yaml"
)

type manifest struct {
	Package  string `yaml:"package"`
	Compiler string `yaml:"compiler,omitempty"`
}

// readManifest loads the ys.yaml in dir. A missing manifest is not an error
// and yields nil.
func readManifest(dir string) (*manifest, error) {
	data, err := ioutil.ReadFile(filepath.Join(dir, manifestFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestFile, err)
	}
	if m.Package == "" {
		return nil, fmt.Errorf("%s: no package name", manifestFile)
	}

	return &m, nil
}

func writeManifest(dir string, m manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(dir, manifestFile), out, 0644)
}

// accepts reports whether the compiler constraint admits compiler version v.
func (m *manifest) accepts(v string) error {
	if m.Compiler == "" {
		return nil
	}

	c, err := semver.NewConstraint(m.Compiler)
	if err != nil {
		return fmt.Errorf("%s: bad compiler constraint %q: %w", manifestFile, m.Compiler, err)
	}
	ver, err := semver.NewVersion(v)
	if err != nil {
		return err
	}

	if !c.Check(ver) {
		return fmt.Errorf("package %s wants compiler %s, this is ysc %s", m.Package, m.Compiler, v)
	}
	return nil
}
