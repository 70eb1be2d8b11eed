package config

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// ValidateDeep performs comprehensive validation including glob syntax,
// executable lookup, and root accessibility. The configPath argument
// specifies the config file location to validate (empty string skips the
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git.path", c.Git.Path, gitExecutableExists),
		c.validateRoots(),
		c.validateIgnorePatterns(),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// gitExecutableExists validates that the git path is executable.
func gitExecutableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// validateRoots checks each scan root is a directory when it exists.
func (c *Config) validateRoots() error {
	roots, err := c.ExpandedRoots()
	if err != nil {
		return criterio.NewFieldErrors("roots", err)
	}

	var errs criterio.FieldErrorsBuilder
	for i, root := range roots {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			continue // scanned as empty
		}
		if err != nil {
			errs = errs.Append(fmt.Sprintf("roots[%d]", i), fmt.Errorf("cannot access: %w", err))
			continue
		}
		if !info.IsDir() {
			errs = errs.Append(fmt.Sprintf("roots[%d]", i), fmt.Errorf("%s is not a directory", root))
		}
	}
	return errs.ToError()
}

// validateIgnorePatterns checks ignore globs parse.
func (c *Config) validateIgnorePatterns() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("ignore[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}
	return errs.ToError()
}
