/* config.go
 * Contains the environment-backed runtime configuration. Values come from the
 * process environment (optionally seeded from a .env file by main)
 */

package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Mongo  Mongo
	League League
}

type Mongo struct {
	URI      string `envconfig:"MONGO_URI" required:"true"`
	Database string `envconfig:"MONGO_DATABASE" default:"rosteriq"`
}

type League struct {
	ID string `envconfig:"LEAGUE_ID" required:"true"`
	// RebuildTime is the local weekly time (HH:MM, Tuesdays) for the
	// aggregate rebuild job.
	RebuildTime string `envconfig:"REBUILD_TIME" default:"06:30"`
	Timezone    string `envconfig:"TIMEZONE" default:"America/New_York"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
