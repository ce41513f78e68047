package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/errors"
	"github.com/lutforge/lutforge/pkg/lut"
)

func quietLogger() *log.Logger {
	l := log.New(os.Stderr)
	l.SetLevel(log.FatalLevel)
	return l
}

func writeIdentity(t *testing.T, path string, size int) {
	t.Helper()
	if err := cube.WriteFile(path, lut.NewIdentity(size, cube.BaseName(path))); err != nil {
		t.Fatal(err)
	}
}

func TestResolveTwoFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "NodeA.cube")
	b := filepath.Join(dir, "NodeB.cube")
	writeIdentity(t, a, 5)
	writeIdentity(t, b, 5)

	items, err := Resolve(a, b, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Name != "NodeA_PLUS_NodeB" {
		t.Errorf("Name = %q", items[0].Name)
	}
	if items[0].Output != "NodeA_PLUS_NodeB.cube" {
		t.Errorf("Output = %q", items[0].Output)
	}

	// Explicit file output wins over the derived name.
	items, err = Resolve(a, b, filepath.Join(dir, "custom.cube"))
	if err != nil {
		t.Fatal(err)
	}
	if got := filepath.Base(items[0].Output); got != "custom.cube" {
		t.Errorf("Output = %q", got)
	}

	// A directory output gets the derived name inside it.
	items, err = Resolve(a, b, dir)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Output != filepath.Join(dir, "NodeA_PLUS_NodeB.cube") {
		t.Errorf("Output = %q", items[0].Output)
	}
}

func TestResolveDirectoryInput(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	fixed := filepath.Join(t.TempDir(), "Fixed.cube")
	writeIdentity(t, fixed, 5)
	for _, n := range []string{"b.cube", "a.cube", "notes.txt"} {
		p := filepath.Join(inDir, n)
		if filepath.Ext(n) == ".cube" {
			writeIdentity(t, p, 5)
		} else if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	items, err := Resolve(inDir, fixed, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	// Sorted enumeration, directory side feeds the first slot.
	if items[0].Name != "a_PLUS_Fixed" || items[1].Name != "b_PLUS_Fixed" {
		t.Errorf("names = %q, %q", items[0].Name, items[1].Name)
	}

	// Fixed file first, directory second flips the pairing.
	items, err = Resolve(fixed, inDir, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Name != "Fixed_PLUS_a" {
		t.Errorf("Name = %q", items[0].Name)
	}
}

func TestResolveDirectoryNeedsDirectoryOutput(t *testing.T) {
	inDir := t.TempDir()
	writeIdentity(t, filepath.Join(inDir, "a.cube"), 5)
	fixed := filepath.Join(t.TempDir(), "Fixed.cube")
	writeIdentity(t, fixed, 5)

	for _, output := range []string{"", fixed} {
		_, err := Resolve(inDir, fixed, output)
		if code := errors.GetCode(err); code != errors.ErrCodeInvalidOutputTarget {
			t.Errorf("output %q: code = %s, want %s", output, code, errors.ErrCodeInvalidOutputTarget)
		}
	}
}

func TestResolveRejectsTwoDirectories(t *testing.T) {
	_, err := Resolve(t.TempDir(), t.TempDir(), t.TempDir())
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidInputCombination {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeInvalidInputCombination)
	}
}

func TestRunSurvivesMalformedItems(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	fixed := filepath.Join(t.TempDir(), "Fixed.cube")
	writeIdentity(t, fixed, 5)

	for i := 0; i < 4; i++ {
		writeIdentity(t, filepath.Join(inDir, fmt.Sprintf("lut%d.cube", i)), 5)
	}
	corrupt := filepath.Join(inDir, "lut4.cube")
	if err := os.WriteFile(corrupt, []byte("LUT_3D_SIZE 5\nnot numbers\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := Resolve(inDir, fixed, outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 5 {
		t.Fatalf("got %d items, want 5", len(items))
	}

	var seen int
	o := &Orchestrator{
		Workers:  2,
		Logger:   quietLogger(),
		OnResult: func(Result) { seen++ },
	}
	run, err := o.Run(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}

	if run.ID == "" {
		t.Error("run must carry an ID")
	}
	if len(run.Results) != 5 {
		t.Fatalf("got %d results, want 5", len(run.Results))
	}
	if seen != 5 {
		t.Errorf("OnResult called %d times, want 5", seen)
	}
	if run.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", run.Failed())
	}

	for i, res := range run.Results {
		if res.Name != items[i].Name {
			t.Errorf("result %d out of order: %q vs %q", i, res.Name, items[i].Name)
		}
		if res.Status == StatusOK {
			if _, err := os.Stat(res.OutputPath); err != nil {
				t.Errorf("%s: output missing: %v", res.Name, err)
			}
			if res.Min != 0 || res.Max != 1 {
				t.Errorf("%s: identity range [%g,%g]", res.Name, res.Min, res.Max)
			}
		} else if res.Message == "" {
			t.Errorf("%s: error result without message", res.Name)
		}
	}
}

func TestRunIsolatesNonFiniteSamples(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	fixed := filepath.Join(t.TempDir(), "Fixed.cube")
	writeIdentity(t, fixed, 2)

	writeIdentity(t, filepath.Join(inDir, "good.cube"), 2)
	poisoned := "LUT_3D_SIZE 2\n"
	for i := 0; i < 8; i++ {
		poisoned += "nan nan nan\n"
	}
	if err := os.WriteFile(filepath.Join(inDir, "bad.cube"), []byte(poisoned), 0o644); err != nil {
		t.Fatal(err)
	}

	items, err := Resolve(inDir, fixed, outDir)
	if err != nil {
		t.Fatal(err)
	}

	o := &Orchestrator{Workers: 2, Logger: quietLogger()}
	run, err := o.Run(context.Background(), items)
	if err != nil {
		t.Fatal(err)
	}
	if run.Failed() != 1 {
		t.Fatalf("Failed() = %d, want 1", run.Failed())
	}
	for _, res := range run.Results {
		switch res.Name {
		case "bad_PLUS_Fixed":
			if res.Status != StatusError {
				t.Errorf("non-finite LUT produced %+v", res)
			}
			if res.Code != string(errors.ErrCodeMalformedLUT) {
				t.Errorf("Code = %q, want %s", res.Code, errors.ErrCodeMalformedLUT)
			}
			if code := errors.GetCode(res.Err()); code != errors.ErrCodeMalformedLUT {
				t.Errorf("Err() code = %s, want %s", code, errors.ErrCodeMalformedLUT)
			}
		case "good_PLUS_Fixed":
			if res.Status != StatusOK {
				t.Errorf("healthy sibling failed: %+v", res)
			}
		default:
			t.Errorf("unexpected item %q", res.Name)
		}
	}
}

func TestProcessTwoFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "Day.cube")
	b := filepath.Join(dir, "Night.cube")
	writeIdentity(t, a, 5)
	writeIdentity(t, b, 5)

	results, err := Process(context.Background(), quietLogger(), a, b, dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Status != StatusOK {
		t.Fatalf("result: %+v", results[0])
	}
	if got := filepath.Base(results[0].OutputPath); got != "Day_PLUS_Night.cube" {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestRunCancellation(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.cube")
	b := filepath.Join(dir, "b.cube")
	writeIdentity(t, a, 5)
	writeIdentity(t, b, 5)

	items, err := Resolve(a, b, "")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o := &Orchestrator{Logger: quietLogger()}
	if _, err := o.Run(ctx, items); err == nil {
		t.Error("cancelled context must abort the run")
	}
}
