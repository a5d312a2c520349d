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

// Package annotation turns a document and its sentence segmentation into entity
// predictions expressed in document coordinates. All offsets are rune offsets and
// every span is half-open: [Begin, End).
package annotation

import "gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/model"

type Document struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type SentenceSpan struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// Request is the body of a process call.
type Request struct {
	Document
	Sentences []SentenceSpan `json:"sentences"`
}

// RawEntity is an entity as reported by the model, relative to its sentence.
type RawEntity = model.Entity

type MappedPrediction struct {
	Label string `json:"label"`
	Begin int    `json:"begin"`
	End   int    `json:"end"`
}

type Response struct {
	Predictions []MappedPrediction `json:"predictions"`
	Meta        map[string]string  `json:"meta"`
}

// Sentence is the text of one span together with where it starts in the document.
type Sentence struct {
	Text   string
	Begin  int
	Length int
}
