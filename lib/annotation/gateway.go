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
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/model"
	"golang.org/x/sync/semaphore"
)

// Gateway owns the shared model and is the only place it is called from. At most
// maxConcurrent calls run at once; with the default of 1 inference is fully
// serialized across requests while everything around it runs in parallel.
type Gateway struct {
	model   model.Predictor
	guard   *semaphore.Weighted
	metrics *metrics.Metrics
}

func NewGateway(predictor model.Predictor, maxConcurrent int, m *metrics.Metrics) *Gateway {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Gateway{
		model:   predictor,
		guard:   semaphore.NewWeighted(int64(maxConcurrent)),
		metrics: m,
	}
}

// PredictBatches runs every batch through the model in order and returns one
// entity list per sentence. The model is held from the first batch to the last
// and released on every return path.
func (g *Gateway) PredictBatches(ctx context.Context, batches [][]string) ([][]RawEntity, error) {
	waitStart := time.Now()
	if err := g.guard.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for model: %w", err)
	}
	defer g.guard.Release(1)

	wait := time.Since(waitStart)
	g.metrics.ObserveWait(wait.Seconds())

	start := time.Now()
	defer func() {
		g.metrics.ObserveInference(time.Since(start).Seconds())
	}()

	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	results := make([][]RawEntity, 0, total)
	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("cancelled before batch %d: %w", i, err)
		}

		entities, err := g.predict(ctx, batch)
		if err != nil {
			return nil, &InferenceError{Batch: i, Err: err}
		}
		if len(entities) != len(batch) {
			return nil, &InferenceError{
				Batch: i,
				Err:   fmt.Errorf("model returned %d results for %d sentences", len(entities), len(batch)),
			}
		}
		results = append(results, entities...)
	}

	log.Debug().
		Int("batches", len(batches)).
		Int("sentences", total).
		Dur("wait", wait).
		Dur("inference", time.Since(start)).
		Msg("model released")

	return results, nil
}

func (g *Gateway) predict(ctx context.Context, batch []string) (entities [][]RawEntity, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	g.metrics.RecordBatch()
	return g.model.Predict(ctx, batch)
}
