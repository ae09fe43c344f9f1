package site

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	derrors "git.home.luguber.info/inful/tapsite/internal/foundation/errors"
)

// Collection is a directory of profile files.
type Collection struct {
	Name      string // directory name as found under root
	Path      string
	OutputDir string // Name with spaces replaced by underscores
	Files     []ProfileFile
}

// ProfileFile is one tab-delimited profile inside a collection.
type ProfileFile struct {
	Name     string
	Path     string
	PageName string // stem + ".html"
	Title    string
}

// Matcher decides which directories and files are profile input.
type Matcher struct {
	Token     string // case-sensitive substring of collection directory names
	Extension string // case-sensitive file extension, including the dot
	Label     string // appended to page titles
}

// OutputDirName maps a collection directory name to its output directory name.
func OutputDirName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// PageName maps a profile file name to its page name.
func (m Matcher) PageName(file string) string {
	return strings.TrimSuffix(file, m.Extension) + ".html"
}

// Title maps a profile file name to its page title.
func (m Matcher) Title(file string) string {
	stem := strings.TrimSuffix(file, m.Extension)
	return strings.ReplaceAll(stem, "_", " ") + " " + m.Label
}

// IsCollection reports whether a directory name marks a profile collection.
func (m Matcher) IsCollection(name string) bool {
	return strings.Contains(name, m.Token)
}

// IsProfile reports whether a file name is a profile. The stem must not be empty.
func (m Matcher) IsProfile(name string) bool {
	return len(name) > len(m.Extension) && strings.HasSuffix(name, m.Extension)
}

// Discover lists the collections under root and their profile files,
// sorted by name. Nothing is written. Directories whose absolute path is in
// skip are ignored.
func (m Matcher) Discover(root string, skip ...string) ([]Collection, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryDiscovery, "read root directory").
			Fatal().WithContext("root", root).Build()
	}

	skipAbs := make([]string, 0, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipAbs = append(skipAbs, abs)
		}
	}

	var collections []Collection
	seen := map[string]string{}
	for _, entry := range entries {
		if !m.IsCollection(entry.Name()) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		isDir, err := isDirectory(entry, path)
		if err != nil {
			return nil, err
		}
		if !isDir {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil && slices.Contains(skipAbs, abs) {
			continue
		}

		out := OutputDirName(entry.Name())
		if other, dup := seen[out]; dup {
			return nil, derrors.NewError(derrors.CategoryDiscovery, "collections map to the same output directory").
				Fatal().WithContext("output", out).WithContext("first", other).
				WithContext("second", entry.Name()).Build()
		}
		seen[out] = entry.Name()

		files, err := m.profiles(path)
		if err != nil {
			return nil, err
		}
		collections = append(collections, Collection{
			Name:      entry.Name(),
			Path:      path,
			OutputDir: out,
			Files:     files,
		})
	}
	return collections, nil
}

func (m Matcher) profiles(dir string) ([]ProfileFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryDiscovery, "read collection directory").
			Fatal().WithContext("path", dir).Build()
	}
	var files []ProfileFile
	for _, entry := range entries {
		if !m.IsProfile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		regular, err := isRegular(entry, path)
		if err != nil {
			return nil, err
		}
		if !regular {
			continue
		}
		files = append(files, ProfileFile{
			Name:     entry.Name(),
			Path:     path,
			PageName: m.PageName(entry.Name()),
			Title:    m.Title(entry.Name()),
		})
	}
	return files, nil
}

// Symlinks are followed; dangling links are skipped.
func isDirectory(entry fs.DirEntry, path string) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, derrors.WrapError(err, derrors.CategoryDiscovery, "stat entry").
			Fatal().WithContext("path", path).Build()
	}
	return info.IsDir(), nil
}

func isRegular(entry fs.DirEntry, path string) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, derrors.WrapError(err, derrors.CategoryDiscovery, "stat entry").
			Fatal().WithContext("path", path).Build()
	}
	return info.Mode().IsRegular(), nil
}
