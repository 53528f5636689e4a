package config

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/worklog/internal/core/styles"
	"github.com/colonyops/worklog/internal/core/workitem"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateTheme(),
		c.validateDatabase(),
		c.validateRules(),
	)
}

// ValidateDeep runs Validate plus I/O checks against the config file and
// data directory. Used by "worklog config validate".
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateTheme() error {
	if c.Theme == "" {
		return nil
	}
	if _, ok := styles.GetPalette(c.Theme); !ok {
		return criterio.NewFieldErrors("theme",
			fmt.Errorf("unknown theme %q (available: %v)", c.Theme, styles.ThemeNames()))
	}
	return nil
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder
	if c.Database.MaxOpenConns < 0 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be >= 0"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must be >= 0"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("must be >= 0"))
	}
	return errs.ToError()
}

// validateRules checks rule glob patterns and creation defaults.
func (c *Config) validateRules() error {
	var errs criterio.FieldErrorsBuilder
	for i, rule := range c.Rules {
		if rule.Pattern == "" {
			errs = errs.Append(fmt.Sprintf("rules[%d].pattern", i), fmt.Errorf("pattern is required"))
		} else if !doublestar.ValidatePattern(rule.Pattern) {
			errs = errs.Append(fmt.Sprintf("rules[%d].pattern", i), fmt.Errorf("invalid glob %q", rule.Pattern))
		}

		if rule.Kind != "" {
			if _, err := workitem.ParseKind(rule.Kind); err != nil {
				errs = errs.Append(fmt.Sprintf("rules[%d].kind", i), err)
			}
		}

		if rule.InitialState != "" {
			state, err := workitem.ParseState(rule.InitialState)
			if err != nil {
				errs = errs.Append(fmt.Sprintf("rules[%d].initial_state", i), err)
			} else if !workitem.ValidInitial(state) {
				errs = errs.Append(fmt.Sprintf("rules[%d].initial_state", i),
					fmt.Errorf("%q is not a creation state (use backlog or ready)", rule.InitialState))
			}
		}
	}
	return errs.ToError()
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

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
