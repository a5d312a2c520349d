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
	"errors"
	"fmt"
)

var ErrInvalidBatchSize = errors.New("batch size must be at least 1")

// OutOfBoundsError reports a sentence span that does not fit the document text.
type OutOfBoundsError struct {
	Index      int
	Span       SentenceSpan
	TextLength int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("sentence %d: span [%d, %d) is out of bounds for text of length %d",
		e.Index, e.Span.Begin, e.Span.End, e.TextLength)
}

// InferenceError reports a failed model call. Batch is the index of the batch
// that failed.
type InferenceError struct {
	Batch int
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed on batch %d: %v", e.Batch, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// MalformedSpanError reports an entity whose offsets cannot be placed inside its
// sentence. It points at the model or its tokenizer, never at the caller.
type MalformedSpanError struct {
	Entity         RawEntity
	Begin          int
	End            int
	SentenceLength int
}

func (e *MalformedSpanError) Error() string {
	return fmt.Sprintf("entity %q (%s) has malformed span [%d, %d) in sentence of length %d",
		e.Entity.Word, e.Entity.Label, e.Begin, e.End, e.SentenceLength)
}
