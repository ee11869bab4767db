package prms

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// Write stores ps as an INI parameter file at path with the [Paths] and
// [FileNames] sections. An existing file is only replaced when overwrite is
// set.
func Write(path string, ps ParameterSet, overwrite bool) (err error) {
	cfg := ini.Empty()
	for _, opt := range options {
		if _, err := cfg.Section(opt.section).NewKey(opt.name, *opt.field(&ps)); err != nil {
			return fmt.Errorf("encoding option %s: %w", opt.key(), err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("writing parameter file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing parameter file %s: %w", path, closeErr)
		}
	}()

	if _, err := cfg.WriteTo(file); err != nil {
		return fmt.Errorf("writing parameter file %s: %w", path, err)
	}
	return nil
}
