package generator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrGeneratedDirMissing is returned when the generator output has no Go package.
var ErrGeneratedDirMissing = errors.New("generated SDK directory not found")

// BackupSuffix is appended to a previous SDK directory.
const BackupSuffix = ".backup"

// Organizer moves a generator output tree into the project.
type Organizer struct {
	// OutputDir is the generator -o directory.
	OutputDir string

	// SourceSubdir is the directory inside OutputDir holding the package; empty for OutputDir itself.
	SourceSubdir string

	// TargetDir receives the package.
	TargetDir string

	// ProjectDir receives the reference copies.
	ProjectDir string

	// ReferenceFiles from OutputDir are copied to ProjectDir as <name>.generated.
	ReferenceFiles []string
}

// OrganizeResult reports what Organize did.
type OrganizeResult struct {
	Target     string
	Backup     string // empty when there was no previous target
	References []string
}

// Organize validates the generated tree, backs up an existing target, moves
// the new tree in and copies the reference files that exist.
func (o Organizer) Organize() (*OrganizeResult, error) {
	src := o.OutputDir
	if o.SourceSubdir != "" {
		src = filepath.Join(o.OutputDir, o.SourceSubdir)
	}
	ok, err := hasGoSources(src)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGeneratedDirMissing, src)
	}

	res := &OrganizeResult{Target: o.TargetDir}

	// Copied first: when SourceSubdir is empty the move takes them along.
	for _, name := range o.ReferenceFiles {
		from := filepath.Join(o.OutputDir, name)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		to := filepath.Join(o.ProjectDir, name+".generated")
		if err := copyFile(from, to); err != nil {
			return nil, fmt.Errorf("copying reference file %s: %w", name, err)
		}
		res.References = append(res.References, to)
	}

	if _, err := os.Stat(o.TargetDir); err == nil {
		backup := strings.TrimRight(o.TargetDir, string(os.PathSeparator)) + BackupSuffix
		if err := os.RemoveAll(backup); err != nil {
			return nil, fmt.Errorf("removing old backup: %w", err)
		}
		if err := os.Rename(o.TargetDir, backup); err != nil {
			return nil, fmt.Errorf("backing up %s: %w", o.TargetDir, err)
		}
		res.Backup = backup
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking target: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(o.TargetDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating target parent: %w", err)
	}
	if err := moveTree(src, o.TargetDir); err != nil {
		return nil, fmt.Errorf("moving generated SDK: %w", err)
	}
	return res, nil
}

func hasGoSources(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading generated directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".go") {
			return true, nil
		}
	}
	return false, nil
}

// moveTree renames src to dst, copying across filesystems when rename fails.
func moveTree(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTree(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
