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

package model

import (
	"context"
	"fmt"
	"time"
)

// Entity is a single entity reported by a model for one input text. Begin and End
// are rune offsets into that text (End exclusive). Word is the surface text as the
// model's tokenizer decoded it, which may carry a leading separator.
type Entity struct {
	Label string `json:"label"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Word  string `json:"word"`
}

// Predictor is the opaque NER capability. Predict returns exactly one entity list
// per input text, in input order.
type Predictor interface {
	Predict(ctx context.Context, texts []string) ([][]Entity, error)
	Close() error
}

type Backend string

const (
	BackendHugot  Backend = "hugot"
	BackendRemote Backend = "remote"
)

type Config struct {
	Backend                 Backend
	BatchSize               int           `mapstructure:"batch_size"`
	MaxConcurrentInferences int           `mapstructure:"max_concurrent_inferences"`
	Timeout                 time.Duration `mapstructure:"timeout"`
	Path                    string
	OnnxFilename            string `mapstructure:"onnx_filename"`
	Remote                  RemoteConfig
}

func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("model.batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.MaxConcurrentInferences < 1 {
		return fmt.Errorf("model.max_concurrent_inferences must be at least 1, got %d", c.MaxConcurrentInferences)
	}
	switch c.Backend {
	case BackendHugot:
		if c.Path == "" {
			return fmt.Errorf("model.path is required for the %s backend", c.Backend)
		}
		// one pipeline per process, and it is not safe for concurrent use
		if c.MaxConcurrentInferences > 1 {
			return fmt.Errorf("model.max_concurrent_inferences must be 1 for the %s backend, got %d",
				c.Backend, c.MaxConcurrentInferences)
		}
	case BackendRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("model.remote.url is required for the %s backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown model backend %q", c.Backend)
	}
	return nil
}

// New loads the predictor selected by conf.Backend.
func New(conf Config) (Predictor, error) {
	switch conf.Backend {
	case BackendHugot:
		return NewHugotPredictor(conf.Path, conf.OnnxFilename)
	case BackendRemote:
		return NewRemotePredictor(conf.Remote), nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", conf.Backend)
	}
}
