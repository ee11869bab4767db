package prms

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Search locations.
const (
	LocationCurDir  = "curdir"
	LocationFileDir = "filedir"
	LocationUserDir = "userdir"
)

// DefaultSearchOrder lists the search locations in ascending priority.
var DefaultSearchOrder = []string{LocationCurDir, LocationFileDir, LocationUserDir}

// EnvPrefix is the prefix of environment overrides (CELLPY_DB_PATH, ...).
const EnvPrefix = "CELLPY"

// Resolver builds a ParameterSet from defaults, a parameter file and the
// environment.
type Resolver struct {
	// SearchPaths maps a search location to its directory.
	SearchPaths map[string]string

	// SearchOrder lists locations in ascending priority.
	// Nil means DefaultSearchOrder.
	SearchOrder []string

	// EnvPrefix enables environment overrides when non-empty.
	EnvPrefix string

	Logger *slog.Logger
}

// NewResolver returns a Resolver over the standard search locations with
// environment overrides enabled.
func NewResolver(searchOrder []string) *Resolver {
	return &Resolver{
		SearchPaths: DefaultSearchPaths(),
		SearchOrder: searchOrder,
		EnvPrefix:   EnvPrefix,
	}
}

// Read resolves parameters the standard way. filename may be empty.
func Read(filename string, searchOrder []string) (ParameterSet, error) {
	return NewResolver(searchOrder).Resolve(filename)
}

// DefaultSearchPaths returns the working directory, the executable directory
// and the home directory. Locations that cannot be determined are left out.
func DefaultSearchPaths() map[string]string {
	paths := make(map[string]string, 3)
	if wd, err := os.Getwd(); err == nil {
		paths[LocationCurDir] = wd
	}
	if dir := executableDir(); dir != "" {
		paths[LocationFileDir] = dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths[LocationUserDir] = home
	}
	return paths
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil || strings.TrimSpace(exe) == "" {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Resolver) order() []string {
	if r.SearchOrder == nil {
		return DefaultSearchOrder
	}
	return r.SearchOrder
}

// Resolve returns the parameter set. If filename is non-empty it is read
// directly and must exist and parse; otherwise the search locations are
// scanned.
func (r *Resolver) Resolve(filename string) (ParameterSet, error) {
	ps := Defaults()

	if filename != "" {
		if _, err := os.Stat(filename); err != nil {
			return ParameterSet{}, fmt.Errorf("%w: %s", ErrConfigNotFound, filename)
		}
		v, err := readFile(filename)
		if err != nil {
			return ParameterSet{}, fmt.Errorf("%w: %s: %v", ErrConfigInvalid, filename, err)
		}
		r.apply(v, filename, &ps)
	} else {
		found, err := r.Discover()
		if err != nil {
			return ParameterSet{}, err
		}
		if found == "" {
			r.logger().Info("no parameter file found, using defaults",
				"pattern", FilePattern,
				"search_order", r.order(),
			)
		} else if v, err := readFile(found); err != nil {
			r.logger().Warn("could not parse parameter file, using defaults",
				"file", found,
				"error", err,
			)
		} else {
			r.apply(v, found, &ps)
		}
	}

	if r.EnvPrefix != "" {
		if err := envconfig.Process(r.EnvPrefix, &ps); err != nil {
			return ParameterSet{}, fmt.Errorf("reading %s_* environment: %w", r.EnvPrefix, err)
		}
	}

	return ps, nil
}

// Candidates returns every file matching FilePattern in the search
// locations, in search order.
func (r *Resolver) Candidates() ([]string, error) {
	var found []string
	for _, loc := range r.order() {
		if !isLocation(loc) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSearchLocation, loc)
		}
		dir, ok := r.SearchPaths[loc]
		if !ok || dir == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(dir, FilePattern))
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", dir, err)
		}
		found = append(found, matches...)
	}
	return found, nil
}

// Discover returns the parameter file that would be used, or "" if none.
func (r *Resolver) Discover() (string, error) {
	found, err := r.Candidates()
	if err != nil {
		return "", err
	}
	return pick(found), nil
}

// pick applies the priority rules: the last non-default file wins; a
// default-named file is only a fallback.
func pick(found []string) string {
	var chosen, fallback string
	for _, f := range found {
		if filepath.Base(f) == DefaultFileName {
			fallback = f
			continue
		}
		chosen = f
	}
	if chosen != "" {
		return chosen
	}
	return fallback
}

// SearchLocation describes one configured search location.
type SearchLocation struct {
	Name   string `json:"name"`
	Dir    string `json:"dir"`
	Exists bool   `json:"exists"`
}

// Locations lists the search locations in search order.
func (r *Resolver) Locations() []SearchLocation {
	out := make([]SearchLocation, 0, len(r.order()))
	for _, loc := range r.order() {
		dir := r.SearchPaths[loc]
		out = append(out, SearchLocation{Name: loc, Dir: dir, Exists: isDir(dir)})
	}
	return out
}

func (r *Resolver) apply(v *viper.Viper, file string, ps *ParameterSet) {
	for _, opt := range options {
		if !v.IsSet(opt.key()) {
			r.logger().Warn("option missing from parameter file, keeping default",
				"file", file,
				"section", opt.section,
				"option", opt.name,
				"default", *opt.field(ps),
			)
			continue
		}
		*opt.field(ps) = v.GetString(opt.key())
	}
	ps.Source = file
	r.logger().Debug("parameter file read", "file", file)
}

func readFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

func isLocation(name string) bool {
	for _, loc := range DefaultSearchOrder {
		if loc == name {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
