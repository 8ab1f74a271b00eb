package report

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// LoadDirectory reads the group directory from a YAML, JSON or TOML file:
//
//	groups:
//	  - name: Polyclinique Centre
//	    members: [Salle de soins A, Salle de soins B]
//
// An empty path yields an empty directory, so every facility is reported ungrouped.
func LoadDirectory(path string) (Directory, error) {
	if strings.TrimSpace(path) == "" {
		return Directory{}, nil
	}

	v, err := openDirectory(path)
	if err != nil {
		return nil, err
	}
	return decodeDirectory(v, path)
}

// WatchDirectory loads the directory and calls onChange with every later
// version of the file. A version that fails to decode is logged and skipped.
func WatchDirectory(path string, onChange func(Directory)) (Directory, error) {
	if strings.TrimSpace(path) == "" {
		return Directory{}, nil
	}

	v, err := openDirectory(path)
	if err != nil {
		return nil, err
	}
	dir, err := decodeDirectory(v, path)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeDirectory(v, path)
		if err != nil {
			log.Error().Err(err).Str("file", e.Name).Msg("group directory reload failed")
			return
		}
		log.Info().Str("file", e.Name).Int("groups", len(updated)).Msg("group directory reloaded")
		onChange(updated)
	})
	v.WatchConfig()

	return dir, nil
}

func openDirectory(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading group directory %s: %w", path, err)
	}
	return v, nil
}

func decodeDirectory(v *viper.Viper, path string) (Directory, error) {
	var dir Directory
	if err := v.UnmarshalKey("groups", &dir); err != nil {
		return nil, fmt.Errorf("error decoding group directory %s: %w", path, err)
	}
	if dir == nil {
		dir = Directory{}
	}
	return dir, nil
}
