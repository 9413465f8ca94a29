package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configName = "config.toml"

// loadConfig layers settings for cmd, highest precedence first: flags set
// on the command line, UTITREE_* environment variables (a .env file in
// the working directory is loaded into the environment), the config file,
// then flag defaults.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			c.v = v
			return nil
		}
		path = filepath.Join(dir, configName)
	}

	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if explicit || !missing {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		c.Logger.Debug("using config file", "path", v.ConfigFileUsed())
	}

	c.v = v
	return nil
}
