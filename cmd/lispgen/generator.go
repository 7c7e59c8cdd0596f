package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/starfederation/lispobj"
	"golang.org/x/tools/go/packages"
)

const (
	generatedFileName = "lispobj_layout_gen.go"
	generatedHeader   = "// Code generated by lispgen; DO NOT EDIT."
	lispobjPkgPath    = "github.com/starfederation/lispobj"
)

//go:embed templates/layout_gen.gotemplate
var layoutTemplateText string

var layoutTemplate = template.Must(template.New("layout_gen").Parse(layoutTemplateText))

type packageInfo struct {
	Dir     string
	Name    string
	PkgPath string
}

type tagInfo struct {
	Name string
	Code uint8
}

type templateData struct {
	PackageName string
	Imports     []string
	Prefix      string
	Config      lispobj.Config
	Layout      *lispobj.Layout
	Tags        []tagInfo
}

// loadPackage resolves the name and import path of the package in dir.
func loadPackage(dir string) (*packageInfo, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, err
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package load error in %s: %v", dir, pkg.Errors[0])
		}
		if pkg.Name == "" || strings.HasSuffix(pkg.Name, "_test") {
			continue
		}
		return &packageInfo{Dir: dir, Name: pkg.Name, PkgPath: pkg.PkgPath}, nil
	}
	return nil, fmt.Errorf("no Go package found in %s", dir)
}

// generateLayout renders the constants of cfg for the package info.
func generateLayout(info *packageInfo, cfg lispobj.Config) ([]byte, error) {
	l, err := lispobj.NewLayout(cfg)
	if err != nil {
		return nil, err
	}
	data := templateData{
		PackageName: info.Name,
		Config:      cfg,
		Layout:      l,
	}
	if info.PkgPath != lispobjPkgPath {
		data.Imports = []string{strconv.Quote(lispobjPkgPath)}
		data.Prefix = "lispobj."
	}
	for t := lispobj.Type(0); t < lispobj.NumTypes; t++ {
		data.Tags = append(data.Tags, tagInfo{Name: exportedTagName(t), Code: l.Code(t)})
	}

	var buf bytes.Buffer
	if err := layoutTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return formatted, nil
}

// exportedTagName turns "vectorlike" into "Vectorlike" and "int0" into "Int0".
func exportedTagName(t lispobj.Type) string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// outputFile is the generated file of one package directory.
type outputFile struct {
	path string
}

func outputIn(dir string) outputFile {
	return outputFile{path: filepath.Join(dir, generatedFileName)}
}

func isGenerated(data []byte) bool {
	return bytes.HasPrefix(data, []byte(generatedHeader))
}

// current returns the file's contents, or nil when it does not exist.
func (f outputFile) current() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// write replaces the file with src unless it already holds src. A file of
// the same name without the generated header is never overwritten.
func (f outputFile) write(src []byte) (bool, error) {
	existing, err := f.current()
	if err != nil {
		return false, err
	}
	if bytes.Equal(existing, src) {
		return false, nil
	}
	if existing != nil && !isGenerated(existing) {
		return false, fmt.Errorf("%s exists and was not generated by lispgen", f.path)
	}
	if err := os.WriteFile(f.path, src, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// remove deletes the file if lispgen wrote it.
func (f outputFile) remove() (bool, error) {
	existing, err := f.current()
	if err != nil || existing == nil || !isGenerated(existing) {
		return false, err
	}
	if err := os.Remove(f.path); err != nil {
		return false, err
	}
	return true, nil
}
