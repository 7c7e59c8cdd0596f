package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/starfederation/lispobj"
)

func TestGenerateLayoutForeignPackage(t *testing.T) {
	info := &packageInfo{Name: "host", PkgPath: "example.com/host"}
	src, err := generateLayout(info, lispobj.Config{WordBytes: 4, GCTypeBits: 3, LSBTag: false})
	if err != nil {
		t.Fatalf("generateLayout: %v", err)
	}
	out := string(src)
	if !strings.HasPrefix(out, generatedHeader) {
		t.Fatalf("missing generated header:\n%s", out)
	}
	for _, want := range []string{
		`package host`,
		`"github.com/starfederation/lispobj"`,
		`ValBits\s+= 29\n`,
		`MostPositiveFixnum\s+= 536870911\n`,
		`USELSBTag\s+= false\n`,
		`TagCons\s+= 6\n`,
		`TagInt1\s+= 3\n`,
		`var LayoutConfig = lispobj\.Config\{`,
	} {
		if !regexp.MustCompile(want).MatchString(out) {
			t.Fatalf("generated source missing %s:\n%s", want, out)
		}
	}
}

func TestGenerateLayoutOwnPackage(t *testing.T) {
	info := &packageInfo{Name: "lispobj", PkgPath: lispobjPkgPath}
	src, err := generateLayout(info, lispobj.WideConfig())
	if err != nil {
		t.Fatalf("generateLayout: %v", err)
	}
	out := string(src)
	if strings.Contains(out, "import") {
		t.Fatalf("package imports itself:\n%s", out)
	}
	if !strings.Contains(out, "var LayoutConfig = Config{") || !regexp.MustCompile(`ValMask\s+= -8\n`).MatchString(out) {
		t.Fatalf("generated source:\n%s", out)
	}
}

func TestGenerateLayoutRejectsInvalidConfig(t *testing.T) {
	if _, err := generateLayout(&packageInfo{Name: "x"}, lispobj.Config{WordBytes: 3, GCTypeBits: 3}); err == nil {
		t.Fatalf("invalid config accepted")
	}
}

func TestExportedTagName(t *testing.T) {
	if got := exportedTagName(lispobj.TypeVectorlike); got != "Vectorlike" {
		t.Fatalf("exportedTagName = %q", got)
	}
	if got := exportedTagName(lispobj.TypeInt0); got != "Int0" {
		t.Fatalf("exportedTagName = %q", got)
	}
}

func TestWriteAndRemoveGeneratedFile(t *testing.T) {
	dir := t.TempDir()
	out := outputIn(dir)
	src, err := generateLayout(&packageInfo{Name: "x", PkgPath: "example.com/x"}, lispobj.WideConfig())
	if err != nil {
		t.Fatalf("generateLayout: %v", err)
	}

	changed, err := out.write(src)
	if err != nil || !changed {
		t.Fatalf("first write = %v, %v", changed, err)
	}
	changed, err = out.write(src)
	if err != nil || changed {
		t.Fatalf("second write = %v, %v", changed, err)
	}

	removed, err := out.remove()
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, generatedFileName)); !os.IsNotExist(err) {
		t.Fatalf("generated file still present: %v", err)
	}
	removed, err = out.remove()
	if err != nil || removed {
		t.Fatalf("remove of missing file = %v, %v", removed, err)
	}
}

func TestHandWrittenFileIsKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, generatedFileName)
	hand := []byte("package x\n")
	if err := os.WriteFile(path, hand, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := outputIn(dir)
	removed, err := out.remove()
	if err != nil || removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	if _, err := out.write([]byte(generatedHeader + "\n\npackage x\n")); err == nil {
		t.Fatalf("write replaced a hand-written file")
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, hand) {
		t.Fatalf("hand-written file changed: %q, %v", data, err)
	}
}
