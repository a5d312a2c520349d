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

package annotation

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/metrics"
)

type Options struct {
	BatchSize int
	// Timeout bounds the time a request may wait for and hold the model. It cannot
	// interrupt a model call that is already running. Zero disables it.
	Timeout time.Duration
	Metrics *metrics.Metrics
}

type Annotator struct {
	gateway   *Gateway
	batchSize int
	timeout   time.Duration
	metrics   *metrics.Metrics
}

func NewAnnotator(gateway *Gateway, opts Options) (*Annotator, error) {
	if opts.BatchSize < 1 {
		return nil, ErrInvalidBatchSize
	}
	return &Annotator{
		gateway:   gateway,
		batchSize: opts.BatchSize,
		timeout:   opts.Timeout,
		metrics:   opts.Metrics,
	}, nil
}

// Annotate runs the whole pipeline for one request. Either the full response or
// an error is returned, never a partial result.
func (a *Annotator) Annotate(ctx context.Context, req Request) (Response, error) {
	sentences, err := ExtractSentences(req.Document, req.Sentences)
	if err != nil {
		return Response{}, err
	}
	if len(sentences) == 0 {
		return Assemble(nil), nil
	}

	batches, err := Batch(sentenceTexts(sentences), a.batchSize)
	if err != nil {
		return Response{}, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	entities, err := a.gateway.PredictBatches(ctx, batches)
	if err != nil {
		return Response{}, err
	}

	perSentence := make([][]MappedPrediction, len(sentences))
	for i, sentence := range sentences {
		perSentence[i], err = MapSentence(entities[i], sentence)
		if err != nil {
			return Response{}, err
		}
	}

	response := Assemble(perSentence)

	a.metrics.RecordSentences(len(sentences))
	a.metrics.RecordEntities(len(response.Predictions))
	log.Debug().
		Str("language", req.Language).
		Int("sentences", len(sentences)).
		Int("batches", len(batches)).
		Int("predictions", len(response.Predictions)).
		Msg("document annotated")

	return response, nil
}
