// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultCreatedBy is written to Created-By when PackOptions.CreatedBy is empty.
const DefaultCreatedBy = "launchkit"

// ErrInvalidPackOptions is returned when PackOptions cannot describe a valid archive.
var ErrInvalidPackOptions = errors.New("invalid pack options")

type (
	// Library is one library group to embed.
	Library struct {
		// Name becomes the directory under LibrariesPrefix.
		Name string
		// Dir is the local directory whose tree is copied.
		Dir string
	}

	// PackOptions describes an archive to build.
	PackOptions struct {
		// Output is the file to create. Required.
		Output string
		// Entry is written as Jump-Class when set.
		Entry string
		// Version is written as Implementation-Version when set.
		Version string
		// CreatedBy defaults to DefaultCreatedBy.
		CreatedBy string
		// ClassesDir, when set, is copied under ResourcesPrefix.
		ClassesDir string
		// Libraries are copied under LibrariesPrefix in the given order.
		Libraries []Library
		// Executable, when set, is copied to the start of Output and the zip is appended
		// after it, producing a self-launching binary.
		Executable string
	}

	// zipTree writes directory trees into a zip, recording every directory once.
	zipTree struct {
		w    *zip.Writer
		dirs map[string]bool
	}
)

// Validate checks that the options describe a valid archive.
func (o PackOptions) Validate() error {
	var errs []error
	if strings.TrimSpace(o.Output) == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	seen := make(map[string]bool, len(o.Libraries))
	for _, lib := range o.Libraries {
		switch {
		case lib.Name == "" || strings.ContainsAny(lib.Name, `/\`) || lib.Name == "." || lib.Name == "..":
			errs = append(errs, fmt.Errorf("library name %q is not a single directory name", lib.Name))
		case seen[lib.Name]:
			errs = append(errs, fmt.Errorf("library %q given twice", lib.Name))
		case lib.Dir == "":
			errs = append(errs, fmt.Errorf("library %q has no directory", lib.Name))
		}
		seen[lib.Name] = true
	}
	if strings.TrimSpace(o.Output) != "" {
		errs = append(errs, o.validateOutputPath()...)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidPackOptions, errors.Join(errs...))
	}
	return nil
}

// validateOutputPath rejects an output that would overwrite the executable or land
// inside a directory being packed.
func (o PackOptions) validateOutputPath() []error {
	output, err := filepath.Abs(o.Output)
	if err != nil {
		return []error{fmt.Errorf("output path %q: %w", o.Output, err)}
	}

	var errs []error
	if o.Executable != "" && samePath(output, o.Executable) {
		errs = append(errs, fmt.Errorf("output %q is the executable being copied", o.Output))
	}

	dirs := make([]string, 0, len(o.Libraries)+1)
	if o.ClassesDir != "" {
		dirs = append(dirs, o.ClassesDir)
	}
	for _, lib := range o.Libraries {
		if lib.Dir != "" {
			dirs = append(dirs, lib.Dir)
		}
	}
	for _, dir := range dirs {
		if within(output, dir) {
			errs = append(errs, fmt.Errorf("output %q is inside packed directory %q", o.Output, dir))
		}
	}
	return errs
}

// samePath reports whether a and b name the same file, by path or, when both exist,
// by identity.
func samePath(a, b string) bool {
	absB, err := filepath.Abs(b)
	if err == nil && filepath.Clean(a) == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// within reports whether the absolute path p lies below dir.
func within(p, dir string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// Pack builds a launchable archive and returns its absolute path. On failure the
// partially written output is removed.
func Pack(opts PackOptions) (archivePath string, err error) {
	if err = opts.Validate(); err != nil {
		return "", err
	}

	absOutputPath, err := filepath.Abs(opts.Output)
	if err != nil {
		return "", fmt.Errorf("failed to resolve output path: %w", err)
	}

	perm := os.FileMode(0o644)
	if opts.Executable != "" {
		perm = 0o755
	}

	out, err := os.OpenFile(absOutputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(absOutputPath) // Best-effort cleanup of partial output
		}
	}()

	var offset int64
	if opts.Executable != "" {
		if offset, err = copyExecutable(out, opts.Executable); err != nil {
			return "", err
		}
	}

	zw := zip.NewWriter(out)
	zw.SetOffset(offset)

	if err = writeArchive(zw, opts); err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("failed to pack archive: %w", err)
	}
	if err = zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}

	return absOutputPath, nil
}

func copyExecutable(dst io.Writer, exe string) (n int64, err error) {
	src, err := os.Open(exe)
	if err != nil {
		return 0, fmt.Errorf("failed to open executable: %w", err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	n, err = io.Copy(dst, src)
	if err != nil {
		return 0, fmt.Errorf("failed to copy executable: %w", err)
	}
	return n, nil
}

func writeArchive(zw *zip.Writer, opts PackOptions) error {
	tree := &zipTree{w: zw, dirs: make(map[string]bool)}

	manifest := NewManifest()
	manifest.Set(ManifestVersionAttr, "1.0")
	createdBy := opts.CreatedBy
	if createdBy == "" {
		createdBy = DefaultCreatedBy
	}
	manifest.Set(CreatedByAttr, createdBy)
	if opts.Entry != "" {
		manifest.Set(JumpClassAttr, opts.Entry)
	}
	if opts.Version != "" {
		manifest.Set(ImplementationVersionAttr, opts.Version)
	}

	if err := tree.dir("META-INF/"); err != nil {
		return err
	}
	mw, err := zw.Create(ManifestName)
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}
	if _, err := manifest.WriteTo(mw); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if opts.ClassesDir != "" {
		if err := tree.copyDir(opts.ClassesDir, ResourcesPrefix); err != nil {
			return err
		}
	}

	if len(opts.Libraries) > 0 {
		if err := tree.dir(LibrariesPrefix); err != nil {
			return err
		}
	}
	for _, lib := range opts.Libraries {
		if err := tree.copyDir(lib.Dir, LibrariesPrefix+lib.Name+"/"); err != nil {
			return err
		}
	}

	return nil
}

// dir adds a directory entry for name (which ends in "/") and for each of its parents.
func (t *zipTree) dir(name string) error {
	if t.dirs[name] {
		return nil
	}
	if parent := path.Dir(strings.TrimSuffix(name, "/")); parent != "." {
		if err := t.dir(parent + "/"); err != nil {
			return err
		}
	}

	header := &zip.FileHeader{Name: name, Method: zip.Store}
	header.SetMode(fs.ModeDir | 0o755)
	if _, err := t.w.CreateHeader(header); err != nil {
		return fmt.Errorf("failed to create directory entry %s: %w", name, err)
	}
	t.dirs[name] = true
	return nil
}

// copyDir copies the tree rooted at src under prefix, which ends in "/".
func (t *zipTree) copyDir(src, prefix string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, relErr := filepath.Rel(src, p)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}

		if d.IsDir() {
			name := prefix
			if relPath != "." {
				name = prefix + filepath.ToSlash(relPath) + "/"
			}
			return t.dir(name)
		}

		if !d.Type().IsRegular() {
			return nil
		}
		return t.file(p, prefix+filepath.ToSlash(relPath), d)
	})
}

func (t *zipTree) file(src, name string, d fs.DirEntry) (err error) {
	fileInfo, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	header, err := zip.FileInfoHeader(fileInfo)
	if err != nil {
		return fmt.Errorf("failed to create file header: %w", err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := t.w.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create entry %s: %w", name, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", src, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
