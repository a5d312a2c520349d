/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package lib

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFlag      = "config"
	LoadAndExitFlag = "load-and-exit"
)

type BaseConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

/*
InitializeConfig loads the annotator's config into targetStruct.

The yml file lives at defaultPath unless the --config flag points elsewhere, so a
k8s config map with a ner-annotator.yml key can be mounted to $(pwd)/config.

Keys in defaultConfig that the yml file does not set keep their default. Any key
known to viper (from the file or the defaults) can be overridden by an uppercased
env var with "." replaced by "_", e.g. MODEL_BATCH_SIZE for model.batch_size.

The global zerolog level is set from log_level.
*/
func InitializeConfig(defaultPath string, defaultConfig map[string]interface{}, targetStruct interface{}) error {
	pflag.String(configFlag, defaultPath, "The config file path.")
	if pflag.Lookup(LoadAndExitFlag) == nil {
		pflag.Bool(LoadAndExitFlag, false, "Load the model, then exit.")
	}
	pflag.Parse()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return err
	}

	configFile := viper.GetString(configFlag)
	if !filepath.IsAbs(configFile) {
		var err error
		configFile, err = filepath.Abs(configFile)
		if err != nil {
			return err
		}
	}

	for k, v := range defaultConfig {
		viper.SetDefault(k, v)
	}

	viper.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile)))
	viper.AddConfigPath(filepath.Dir(configFile))

	// an env var is only read if viper already knows the key
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		log.Warn().Err(err).Msg("default settings applied")
	} else if err != nil {
		return err
	}

	var bc BaseConfig
	if err := viper.Unmarshal(&bc); err != nil {
		return err
	}

	lvl, err := zerolog.ParseLevel(bc.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	return viper.Unmarshal(targetStruct)
}
