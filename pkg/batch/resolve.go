package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lutforge/lutforge/pkg/cube"
	"github.com/lutforge/lutforge/pkg/errors"
)

// Item is one unit of combine work: apply Second after First and write
// the result to Output.
type Item struct {
	First  string
	Second string
	Output string

	// Name is the combined LUT title, derived from the input basenames.
	Name string
}

// Resolve expands a combine request into concrete work items.
//
// file + file   → one item; output may be a file path, a directory, or
//                 empty (derived filename in the working directory).
// dir + file    → one item per .cube file in the directory, paired with
//                 the fixed file on the other side; output must be a
//                 directory.
// dir + dir     → rejected. Pairing two directories is ambiguous.
func Resolve(first, second, output string) ([]Item, error) {
	firstDir, err := isDir(first)
	if err != nil {
		return nil, err
	}
	secondDir, err := isDir(second)
	if err != nil {
		return nil, err
	}

	if firstDir && secondDir {
		return nil, errors.New(errors.ErrCodeInvalidInputCombination,
			"at most one input may be a directory, got two: %s and %s", first, second)
	}

	if !firstDir && !secondDir {
		item, err := singleItem(first, second, output)
		if err != nil {
			return nil, err
		}
		return []Item{item}, nil
	}

	dir, fixed := first, second
	if secondDir {
		dir, fixed = second, first
	}

	files, err := listLUTs(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no .cube files in %s", dir)
	}

	outDir, err := requireDir(output)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(files))
	for _, f := range files {
		a, b := f, fixed
		if secondDir {
			a, b = fixed, f
		}
		name := composedName(a, b)
		items = append(items, Item{
			First:  a,
			Second: b,
			Output: filepath.Join(outDir, name+cube.Extension),
			Name:   name,
		})
	}
	return items, nil
}

// singleItem builds the one-item batch for two file inputs.
func singleItem(first, second, output string) (Item, error) {
	name := composedName(first, second)

	switch {
	case output == "":
		output = name + cube.Extension
	default:
		if dir, err := isDir(output); err == nil && dir {
			output = filepath.Join(output, name+cube.Extension)
		}
	}
	return Item{First: first, Second: second, Output: output, Name: name}, nil
}

// composedName derives the combined LUT title from the input basenames.
func composedName(first, second string) string {
	return fmt.Sprintf("%s_PLUS_%s", cube.BaseName(first), cube.BaseName(second))
}

// isDir reports whether path is an existing directory. A missing path is
// not an error here; reads fail later with a per-item result instead.
func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeIO, err, "inspecting %s", path)
	}
	return info.IsDir(), nil
}

// requireDir validates the batch output target: it must name a directory
// (existing or creatable), never a file.
func requireDir(output string) (string, error) {
	if output == "" {
		return "", errors.New(errors.ErrCodeInvalidOutputTarget,
			"directory input requires a directory output")
	}
	if info, err := os.Stat(output); err == nil && !info.IsDir() {
		return "", errors.New(errors.ErrCodeInvalidOutputTarget,
			"output %s is a file, but directory input requires a directory output", output)
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "creating %s", output)
	}
	return output, nil
}

// listLUTs returns the .cube files in dir, sorted for deterministic item
// order.
func listLUTs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "listing %s", dir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !cube.IsLUTFile(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
