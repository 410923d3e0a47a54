package orbital

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the directory of conf.{toml,yaml,json}.
const ConfigEnv = "ORBEL_CONFIG"

// LoadParams reads the parameters from the provided configuration file, or from the
// `conf` file in the directory named by ORBEL_CONFIG if path is empty.
// Missing keys keep their DefaultParams value. With neither a path nor the environment
// variable, the defaults are returned.
func LoadParams(path string) (Params, error) {
	v := viper.New()
	if _, err := ReadConfig(v, path); err != nil {
		return Params{}, err
	}
	return ParamsFromViper(v)
}

// ReadConfig reads the configuration file at path into v, or the `conf` file in the directory
// named by ORBEL_CONFIG if path is empty. It returns the file read, which is empty when there
// is neither a path nor the environment variable.
func ReadConfig(v *viper.Viper, path string) (string, error) {
	switch dir := os.Getenv(ConfigEnv); {
	case path != "":
		v.SetConfigFile(path)
	case dir != "":
		v.SetConfigName("conf")
		v.AddConfigPath(dir)
	default:
		return "", nil
	}
	if err := v.ReadInConfig(); err != nil {
		return "", errors.Wrap(err, "reading configuration")
	}
	return v.ConfigFileUsed(), nil
}

// ParamsFromViper returns the parameters held by an already loaded viper instance.
// Unset keys take their DefaultParams value.
func ParamsFromViper(v *viper.Viper) (Params, error) {
	def := DefaultParams()
	v.SetDefault("mu", def.Mu)
	v.SetDefault("order", def.Order)
	v.SetDefault("r_earth", def.REarth)
	p := Params{
		Mu:     v.GetFloat64("mu"),
		Order:  v.GetInt("order"),
		REarth: v.GetFloat64("r_earth"),
	}
	if err := p.Validate(); err != nil {
		if file := v.ConfigFileUsed(); file != "" {
			return Params{}, errors.Wrapf(err, "invalid %s", filepath.Base(file))
		}
		return Params{}, err
	}
	return p, nil
}
