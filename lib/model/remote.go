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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type RemoteConfig struct {
	URL     string
	Timeout time.Duration
}

// RemotePredictor delegates inference to a model server speaking the batch
// protocol below, e.g. a sidecar container holding the GPU.
type RemotePredictor struct {
	Url        string
	httpClient HttpClient
}

type RemoteRequest struct {
	Texts []string `json:"texts"`
}

type RemoteResponse struct {
	Entities [][]Entity `json:"entities"`
}

func NewRemotePredictor(conf RemoteConfig) *RemotePredictor {
	return &RemotePredictor{
		Url:        conf.URL,
		httpClient: &http.Client{Timeout: conf.Timeout},
	}
}

func (r *RemotePredictor) Predict(ctx context.Context, texts []string) ([][]Entity, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(RemoteRequest{Texts: texts})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server responded %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var remoteResponse RemoteResponse
	if err := json.Unmarshal(body, &remoteResponse); err != nil {
		return nil, fmt.Errorf("decoding model server response: %w", err)
	}

	if len(remoteResponse.Entities) != len(texts) {
		return nil, fmt.Errorf("model server returned %d results for %d texts", len(remoteResponse.Entities), len(texts))
	}

	results := make([][]Entity, len(texts))
	for i, entities := range remoteResponse.Entities {
		results[i] = make([]Entity, 0, len(entities))
		for _, entity := range entities {
			if entity.Label = NormalizeLabel(entity.Label); entity.Label == "" {
				continue
			}
			results[i] = append(results[i], entity)
		}
	}

	return results, nil
}

func (r *RemotePredictor) Close() error {
	return nil
}
