package annotation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MapEntity moves an entity from sentence coordinates into document coordinates.
//
// Some tokenizers glue the separator in front of a word onto the first sub-token of
// an entity, so the reported span starts on the whitespace. When the surface text
// starts with whitespace the begin offset is advanced past it before translating.
// The span must still fit the sentence afterwards; nothing is clamped.
func MapEntity(entity RawEntity, sentence Sentence) (MappedPrediction, error) {
	begin, end := entity.Begin, entity.End

	if trimmed := strings.TrimLeftFunc(entity.Word, unicode.IsSpace); len(trimmed) != len(entity.Word) {
		begin += utf8.RuneCountInString(entity.Word) - utf8.RuneCountInString(trimmed)
	}

	if begin < 0 || begin > end || end > sentence.Length {
		return MappedPrediction{}, &MalformedSpanError{
			Entity:         entity,
			Begin:          begin,
			End:            end,
			SentenceLength: sentence.Length,
		}
	}

	return MappedPrediction{
		Label: entity.Label,
		Begin: begin + sentence.Begin,
		End:   end + sentence.Begin,
	}, nil
}

// MapSentence maps every entity of one sentence, preserving emission order.
func MapSentence(entities []RawEntity, sentence Sentence) ([]MappedPrediction, error) {
	predictions := make([]MappedPrediction, len(entities))
	for i, entity := range entities {
		prediction, err := MapEntity(entity, sentence)
		if err != nil {
			return nil, err
		}
		predictions[i] = prediction
	}
	return predictions, nil
}
