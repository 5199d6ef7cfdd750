package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"crane/internal/diag"
	"crane/internal/source"
)

// Manifest is a loaded crane.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config

	constraintLine int
}

// Config mirrors the crane.toml layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	// Crane is a semver constraint on the toolchain, e.g. ">= 0.1.0-0, < 0.2.0".
	Crane string `toml:"crane,omitempty"`
}

type BuildConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics,omitempty"`
	Sources        string `toml:"sources,omitempty"`
}

// ManifestError describes a crane.toml problem. Line is 1-based, 0 when unknown.
type ManifestError struct {
	Path string
	Line int
	Code diag.Code
	Msg  string
}

func (e *ManifestError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Diagnostic loads the manifest into fs and points a diagnostic at the offending line.
func (e *ManifestError) Diagnostic(fs *source.FileSet) *diag.Diagnostic {
	id, err := fs.Load(e.Path)
	if err != nil {
		id = fs.AddVirtual(e.Path, nil)
	}
	span := source.Span{File: id}
	if line, convErr := safecast.Conv[uint32](e.Line); convErr == nil && line > 0 {
		span = fs.Get(id).LineSpan(line)
	}
	return diag.NewError(e.Code, span, e.Msg)
}

// LoadFromDir finds crane.toml above startDir and loads it.
// ok is false when no manifest exists; that is not an error.
func LoadFromDir(startDir string) (manifest *Manifest, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := Load(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// Load decodes and validates a manifest file.
func Load(path string) (*Manifest, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		merr := &ManifestError{Path: path, Code: diag.ProjInvalidManifest, Msg: "failed to parse TOML: " + err.Error()}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			merr.Line = perr.Position.Line
			merr.Msg = "failed to parse TOML: " + perr.Message
		}
		return nil, merr
	}
	invalid := func(key ...string) *ManifestError {
		return &ManifestError{
			Path: path,
			Line: keyLine(string(data), key...),
			Code: diag.ProjInvalidManifest,
		}
	}
	if !meta.IsDefined("package") {
		e := invalid()
		e.Msg = "missing [package]"
		return nil, e
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		e := invalid("package")
		e.Msg = "missing [package].name"
		return nil, e
	}
	if meta.IsDefined("package", "crane") {
		if _, err := semver.NewConstraint(cfg.Package.Crane); err != nil {
			e := invalid("package", "crane")
			e.Msg = fmt.Sprintf("[package].crane is not a valid version constraint: %v", err)
			return nil, e
		}
	}
	if cfg.Build.MaxDiagnostics < 0 {
		e := invalid("build", "max_diagnostics")
		e.Msg = "[build].max_diagnostics must not be negative"
		return nil, e
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		e := invalid(undecoded[0]...)
		e.Msg = fmt.Sprintf("unknown key %q", undecoded[0].String())
		return nil, e
	}
	return &Manifest{
		Path:           path,
		Root:           filepath.Dir(path),
		Config:         cfg,
		constraintLine: keyLine(string(data), "package", "crane"),
	}, nil
}

// keyLine находит строку, где объявлена таблица или ключ.
// MetaData не хранит позиций, поэтому ищем по тексту; 0 если не нашли.
func keyLine(content string, key ...string) int {
	if len(key) == 0 {
		return 0
	}
	table := ""
	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			table = strings.TrimSpace(strings.Trim(line, "[]"))
			if len(key) == 1 && table == key[0] {
				return i + 1
			}
			continue
		}
		name, _, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		name = strings.Trim(strings.TrimSpace(name), `"`)
		switch len(key) {
		case 1:
			if table == "" && name == key[0] {
				return i + 1
			}
		case 2:
			if table == key[0] && name == key[1] {
				return i + 1
			}
		}
	}
	return 0
}

// CheckToolchain verifies that toolchainVersion satisfies [package].crane.
func (m *Manifest) CheckToolchain(toolchainVersion string) error {
	if m == nil || strings.TrimSpace(m.Config.Package.Crane) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(m.Config.Package.Crane)
	if err != nil {
		return &ManifestError{Path: m.Path, Line: m.constraintLine, Code: diag.ProjInvalidManifest, Msg: err.Error()}
	}
	v, err := semver.NewVersion(toolchainVersion)
	if err != nil {
		return fmt.Errorf("toolchain version %q: %w", toolchainVersion, err)
	}
	if !constraint.Check(v) {
		return &ManifestError{
			Path: m.Path,
			Line: m.constraintLine,
			Code: diag.ProjToolchainMismatch,
			Msg:  fmt.Sprintf("crane %s does not satisfy [package].crane %q", v, m.Config.Package.Crane),
		}
	}
	return nil
}

// SourcesDir returns the directory that `crane check` scans by default.
func (m *Manifest) SourcesDir() string {
	if m == nil {
		return "."
	}
	rel := strings.TrimSpace(m.Config.Build.Sources)
	if rel == "" {
		return m.Root
	}
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}

// Init writes a fresh crane.toml into dir. Existing manifests are left alone.
func Init(dir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		name = filepath.Base(dir)
	}
	path := filepath.Join(dir, ManifestName)
	// #nosec G304 -- path is derived from the caller's directory
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s already exists", path)
		}
		return "", err
	}
	cfg := Config{
		Package: PackageConfig{Name: name},
		Build:   BuildConfig{Sources: "."},
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}
