package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/kkyr/fig"
)

const EnvPrefix = "BLENDWALL"

// LoadConfig loads a configuration file into the given struct.
// The path param specifies a custom path to the configuration file,
// when it's empty config.yaml is searched in the default dirs.
// Reads and puts environment variables with the prefix BLENDWALL_.
// Params from the config should be in uppercase separated with _.
// A missing file is not an error, then only defaults and env apply.
func LoadConfig(config any, path string) error {
	opts := []fig.Option{fig.UseEnv(EnvPrefix)}
	if path != "" {
		opts = append(opts, fig.File(filepath.Base(path)), fig.Dirs(filepath.Dir(path)))
	} else {
		dirs := []string{".", "configs", "../../configs"}
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".blendwall"))
		}
		opts = append(opts, fig.Dirs(dirs...))
	}
	err := fig.Load(config, opts...)
	if errors.Is(err, fig.ErrFileNotFound) && path == "" {
		return LoadConfigEnv(config)
	}
	return err
}

func LoadConfigEnv(config any) error {
	return fig.Load(config, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
}
