// Command vmtranslate is the CLI entry point for the VM-to-Hack-assembly
// translator. It owns the external collaborators spec.md places out of
// scope for the core (command-line argument parsing and filesystem
// enumeration) and hands the driver package an ordered stream of
// driver.SourceUnit values plus an output sink, per spec section 1.
//
// Grounded on the teacher's main.go (flag parsing, single positional
// argument, process exit codes), with the gcc-invocation/"-run" assembler
// pipeline dropped: spec section 1 explicitly places the final assembler
// pass out of scope.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/skx/vmtranslate/internal/driver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vmtranslate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	output := fs.String("o", "", "Output path (defaults per spec section 6).")
	verbose := fs.Bool("v", false, "Enable verbose/debug tracing to stderr.")
	bootstrap := fs.String("bootstrap", "auto", "Bootstrap policy: auto, always, or never.")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: vmtranslate <path-to-.vm-file-or-directory>")
		return 2
	}
	path := fs.Arg(0)

	logger := log.New(stderr, "vmtranslate: ", 0)
	if !*verbose {
		logger.SetOutput(discard{})
	}

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(stderr, "vmtranslate: %s\n", err)
		return 1
	}

	units, mode, outPath, err := plan(path, info)
	if err != nil {
		fmt.Fprintf(stderr, "vmtranslate: %s\n", err)
		return 1
	}
	if *bootstrap == "always" {
		mode = driver.MultiUnit
	} else if *bootstrap == "never" {
		mode = driver.SingleUnit
	}
	if *output != "" {
		outPath = *output
	}

	if len(units) == 0 {
		fmt.Fprintln(stderr, "vmtranslate: no .vm source units found")
		return 1
	}

	logger.Printf("translating %d unit(s) in %s mode -> %s", len(units), modeName(mode), outPath)

	lines, err := translate(units, mode)
	if err != nil {
		fmt.Fprintf(stderr, "vmtranslate: %s\n", err)
		return 1
	}

	if outPath == "-" {
		for _, line := range lines {
			fmt.Fprintln(stdout, line)
		}
		return 0
	}

	if err := writeOutput(outPath, lines); err != nil {
		fmt.Fprintf(stderr, "vmtranslate: %s\n", err)
		return 1
	}

	return 0
}

func translate(sources []source, mode driver.Mode) ([]string, error) {
	d := driver.New()

	units := make([]driver.SourceUnit, 0, len(sources))
	files := make([]*os.File, 0, len(sources))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	for _, s := range sources {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", s.path)
		}
		files = append(files, f)
		units = append(units, driver.SourceUnit{BaseName: s.baseName, Reader: f})
	}

	return d.Translate(units, mode)
}

type source struct {
	path     string
	baseName string
}

// plan determines the driver mode, the set of source units to translate,
// and the default output path, per spec section 6.
func plan(path string, info os.FileInfo) ([]source, driver.Mode, string, error) {
	if !info.IsDir() {
		if filepath.Ext(path) != ".vm" {
			return nil, 0, "", errors.Errorf("%s: missing .vm extension", path)
		}
		base := baseName(path)
		if err := driver.ValidateBaseName(base); err != nil {
			return nil, 0, "", err
		}
		dir := filepath.Dir(path)
		out := filepath.Join(dir, base+".asm")
		return []source{{path: path, baseName: base}}, driver.SingleUnit, out, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, 0, "", errors.Wrapf(err, "reading directory %s", path)
	}

	var names []string
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".vm" {
			continue
		}
		names = append(names, ent.Name())
	}
	// Deterministic across platforms: directory iteration order is
	// otherwise unspecified (SPEC_FULL.md "Directory enumeration
	// ordering").
	sort.Strings(names)

	var sources []source
	for _, name := range names {
		base := baseName(name)
		if err := driver.ValidateBaseName(base); err != nil {
			// FilenameError: skip the bad file in multi-unit
			// mode, other files continue (spec section 7).
			continue
		}
		sources = append(sources, source{path: filepath.Join(path, name), baseName: base})
	}

	dirName := filepath.Base(filepath.Clean(path))
	out := filepath.Join(path, dirName+".asm")
	return sources, driver.MultiUnit, out, nil
}

// baseName returns the portion of a filename before its first '.'.
func baseName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func writeOutput(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	return nil
}

func modeName(m driver.Mode) string {
	if m == driver.MultiUnit {
		return "multi-unit"
	}
	return "single-unit"
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
