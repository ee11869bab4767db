package prms

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FilePattern is the glob used to discover parameter files.
	FilePattern = "_cellpy_prms*.ini"

	// DefaultFileName has the lowest priority among discovered files.
	DefaultFileName = "_cellpy_prms_default.ini"
)

// Section names of the parameter file.
const (
	SectionPaths     = "Paths"
	SectionFileNames = "FileNames"
)

// ParameterSet holds the resolved locations and file names.
//
// Environment names are derived from the field names under the resolver's
// prefix only (CELLPY_OUTDATADIR, CELLPY_DB_PATH, ...). An envconfig tag
// would also make envconfig fall back to the bare name.
type ParameterSet struct {
	OutDataDir  string
	ResDataDir  string
	HDF5DataDir string
	DBPath      string `split_words:"true"`
	FileLogDir  string
	DBFilename  string `split_words:"true"`
	DBCFilename string `split_words:"true"`

	// Source is the parameter file the values were read from.
	// Empty when only built-in defaults (and environment) apply.
	Source string `ignored:"true"`
}

// Defaults returns the built-in parameter set.
func Defaults() ParameterSet {
	return ParameterSet{
		OutDataDir:  filepath.Join("..", "outdata"),
		ResDataDir:  filepath.Join("..", "indata"),
		HDF5DataDir: filepath.Join("..", "indata"),
		DBPath:      filepath.Join("..", "databases"),
		FileLogDir:  filepath.Join("..", "databases"),
		DBFilename:  "cellpy_db.xlsx",
		DBCFilename: "cellpy_dbc.xlsx",
	}
}

// option binds one INI key to its ParameterSet field.
type option struct {
	section string
	name    string
	field   func(*ParameterSet) *string
}

// key returns the lookup key used by viper ("section.name", lower case).
func (o option) key() string {
	return strings.ToLower(o.section + "." + o.name)
}

var options = []option{
	{SectionPaths, "outdatadir", func(p *ParameterSet) *string { return &p.OutDataDir }},
	{SectionPaths, "resdatadir", func(p *ParameterSet) *string { return &p.ResDataDir }},
	{SectionPaths, "hdf5datadir", func(p *ParameterSet) *string { return &p.HDF5DataDir }},
	{SectionPaths, "db_path", func(p *ParameterSet) *string { return &p.DBPath }},
	{SectionPaths, "filelogdir", func(p *ParameterSet) *string { return &p.FileLogDir }},
	{SectionFileNames, "db_filename", func(p *ParameterSet) *string { return &p.DBFilename }},
	{SectionFileNames, "dbc_filename", func(p *ParameterSet) *string { return &p.DBCFilename }},
}

// Get returns the value of a recognized option by its INI name.
func (p ParameterSet) Get(name string) (string, bool) {
	for _, opt := range options {
		if opt.name == name {
			return *opt.field(&p), true
		}
	}
	return "", false
}

// Values returns the options as an ordered list of name/value pairs.
func (p ParameterSet) Values() [][2]string {
	out := make([][2]string, 0, len(options))
	for _, opt := range options {
		out = append(out, [2]string{opt.name, *opt.field(&p)})
	}
	return out
}

// DBFile returns the path of the main cell database.
func (p ParameterSet) DBFile() string {
	return filepath.Join(p.DBPath, p.DBFilename)
}

// DBCFile returns the path of the secondary cell database.
func (p ParameterSet) DBCFile() string {
	return filepath.Join(p.DBPath, p.DBCFilename)
}

func (p ParameterSet) String() string {
	source := p.Source
	if source == "" {
		source = "(built-in defaults)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "prm-file:    \t%s\n", source)
	b.WriteString("------------------------------------------------------------\n")
	b.WriteString("NAME          \tVALUE\n")
	for _, kv := range p.Values() {
		fmt.Fprintf(&b, "%-13s\t%s\n", kv[0]+":", kv[1])
	}
	return b.String()
}
