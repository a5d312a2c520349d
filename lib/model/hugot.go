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
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/rs/zerolog/log"
)

const defaultOnnxFilename = "model.onnx"

// HugotPredictor runs an exported token-classification model through a hugot
// pipeline on the pure Go session. The pipeline is not safe for concurrent use.
type HugotPredictor struct {
	session  *hugot.Session
	pipeline *pipelines.TokenClassificationPipeline
}

func NewHugotPredictor(modelPath, onnxFilename string) (*HugotPredictor, error) {
	if modelPath == "" {
		return nil, errors.New("model path is required")
	}
	if onnxFilename == "" {
		onnxFilename = defaultOnnxFilename
	}

	log.Info().Str("model_path", modelPath).Str("onnx_filename", onnxFilename).Msg("loading token classification model")

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("creating hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TokenClassificationConfig{
		ModelPath:    modelPath,
		Name:         fmt.Sprintf("ner:%s:%s", modelPath, onnxFilename),
		OnnxFilename: onnxFilename,
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("creating token classification pipeline: %w", err)
	}

	// group adjacent sub-tokens of the same entity into one span
	pipeline.AggregationStrategy = "SIMPLE"

	return &HugotPredictor{
		session:  session,
		pipeline: pipeline,
	}, nil
}

func (h *HugotPredictor) Predict(ctx context.Context, texts []string) ([][]Entity, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := h.pipeline.RunPipeline(texts)
	if err != nil {
		return nil, fmt.Errorf("running token classification: %w", err)
	}
	if len(output.Entities) != len(texts) {
		return nil, fmt.Errorf("token classification returned %d results for %d texts", len(output.Entities), len(texts))
	}

	results := make([][]Entity, len(texts))
	for i, textEntities := range output.Entities {
		results[i] = convertEntities(texts[i], textEntities)
	}
	return results, nil
}

func (h *HugotPredictor) Close() error {
	if h.session == nil {
		return nil
	}
	err := h.session.Destroy()
	h.session = nil
	return err
}

// convertEntities drops outside labels and moves hugot's byte offsets onto runes.
func convertEntities(text string, entities []pipelines.Entity) []Entity {
	res := make([]Entity, 0, len(entities))
	for _, e := range entities {
		label := NormalizeLabel(e.Entity)
		if label == "" {
			continue
		}
		res = append(res, Entity{
			Label: label,
			Begin: runeOffset(text, int(e.Start)),
			End:   runeOffset(text, int(e.End)),
			Word:  e.Word,
		})
	}
	return res
}

// runeOffset converts a byte offset into text to a rune offset. Offsets past the end
// of text stay past the end and offsets inside a multibyte rune become -1, so that
// the span is rejected downstream.
func runeOffset(text string, byteOffset int) int {
	if byteOffset <= 0 {
		return byteOffset
	}
	if byteOffset > len(text) {
		return utf8.RuneCountInString(text) + byteOffset - len(text)
	}
	if byteOffset < len(text) && !utf8.RuneStart(text[byteOffset]) {
		return -1
	}
	return utf8.RuneCountInString(text[:byteOffset])
}
