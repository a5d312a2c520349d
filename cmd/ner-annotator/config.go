package main

import (
	"fmt"

	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/language"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/model"
)

const defaultConfigPath = "./config/ner-annotator.yml"

// config structure
type annotatorConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		HttpPort           int      `mapstructure:"http_port"`
		MaxPayloadSize     int64    `mapstructure:"max_payload_size"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	}
	Annotator struct {
		Name               string
		Version            string
		SupportedLanguages []string `mapstructure:"supported_languages"`
		StrictLanguage     bool     `mapstructure:"strict_language"`
		CommunicationLayer string   `mapstructure:"communication_layer"`
		DockerContainerId  string   `mapstructure:"docker_container_id"`
		Parameters         map[string]string
	}
	Model model.Config
}

// defaults are set up for local development
var defaultConfig = map[string]interface{}{
	"log_level": "info",
	"server": map[string]interface{}{
		"http_port":            9714,
		"max_payload_size":     16_777_215,
		"cors_allowed_origins": []string{},
	},
	"annotator": map[string]interface{}{
		"name":                "duui-ner-go",
		"version":             "dev",
		"supported_languages": []string{"de"},
		"strict_language":     false,
		"communication_layer": "communication_layer.lua",
		"docker_container_id": "",
	},
	"model": map[string]interface{}{
		"backend":                   string(model.BackendHugot),
		"batch_size":                128,
		"max_concurrent_inferences": 1,
		"timeout":                   "0s",
		"path":                      "./model",
		"onnx_filename":             "model.onnx",
		"remote": map[string]interface{}{
			"url":     "",
			"timeout": "60s",
		},
	},
}

func (c annotatorConfig) Validate() error {
	if c.Server.HttpPort < 1 || c.Server.HttpPort > 65535 {
		return fmt.Errorf("server.http_port %d is not a valid port", c.Server.HttpPort)
	}
	if c.Server.MaxPayloadSize < 1 {
		return fmt.Errorf("server.max_payload_size must be positive, got %d", c.Server.MaxPayloadSize)
	}
	if c.Model.Timeout < 0 {
		return fmt.Errorf("model.timeout must not be negative, got %s", c.Model.Timeout)
	}
	if _, err := language.New(c.Annotator.SupportedLanguages); err != nil {
		return fmt.Errorf("annotator.supported_languages: %w", err)
	}
	return c.Model.Validate()
}
