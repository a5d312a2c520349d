package annotation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type OffsetSuite struct {
	suite.Suite
}

func TestOffsetSuite(t *testing.T) {
	suite.Run(t, new(OffsetSuite))
}

func (s *OffsetSuite) Test_MapEntity() {
	sentence := Sentence{
		Text:   "Er war von 2009 bis 2017 der 44. Präsident der Vereinigten Staaten.",
		Begin:  76,
		Length: 67,
	}

	tests := []struct {
		name   string
		entity RawEntity
		want   MappedPrediction
	}{
		{
			name:   "no leading whitespace is a pure translation",
			entity: RawEntity{Label: "LOC", Begin: 47, End: 66, Word: "Vereinigten Staaten"},
			want:   MappedPrediction{Label: "LOC", Begin: 123, End: 142},
		},
		{
			name:   "leading space is skipped",
			entity: RawEntity{Label: "LOC", Begin: 46, End: 66, Word: " Vereinigten Staaten"},
			want:   MappedPrediction{Label: "LOC", Begin: 123, End: 142},
		},
		{
			name:   "several whitespace runes are skipped",
			entity: RawEntity{Label: "LOC", Begin: 44, End: 66, Word: "\t  Vereinigten Staaten"},
			want:   MappedPrediction{Label: "LOC", Begin: 123, End: 142},
		},
		{
			name:   "trailing whitespace is left alone",
			entity: RawEntity{Label: "LOC", Begin: 47, End: 67, Word: "Vereinigten Staaten "},
			want:   MappedPrediction{Label: "LOC", Begin: 123, End: 143},
		},
		{
			name:   "span at the start of the sentence",
			entity: RawEntity{Label: "PER", Begin: 0, End: 2, Word: "Er"},
			want:   MappedPrediction{Label: "PER", Begin: 76, End: 78},
		},
		{
			name:   "whitespace-only word collapses to an empty span",
			entity: RawEntity{Label: "MISC", Begin: 2, End: 3, Word: " "},
			want:   MappedPrediction{Label: "MISC", Begin: 79, End: 79},
		},
	}
	for _, tt := range tests {
		s.T().Log(tt.name)
		got, err := MapEntity(tt.entity, sentence)
		s.Require().NoError(err)
		s.Equal(tt.want, got)
		s.GreaterOrEqual(got.Begin, sentence.Begin)
		s.LessOrEqual(got.Begin, got.End)
		s.LessOrEqual(got.End, sentence.Begin+sentence.Length)
	}
}

func (s *OffsetSuite) Test_MapEntity_Malformed() {
	sentence := Sentence{Text: "Barack Obama", Begin: 100, Length: 12}

	tests := []struct {
		name   string
		entity RawEntity
	}{
		{name: "correction pushes begin past end", entity: RawEntity{Label: "PER", Begin: 5, End: 6, Word: "   Obama"}},
		{name: "begin after end", entity: RawEntity{Label: "PER", Begin: 7, End: 6, Word: "Obama"}},
		{name: "end past the sentence", entity: RawEntity{Label: "PER", Begin: 7, End: 13, Word: "Obama"}},
		{name: "negative begin", entity: RawEntity{Label: "PER", Begin: -1, End: 6, Word: "Barack"}},
	}
	for _, tt := range tests {
		s.T().Log(tt.name)
		_, err := MapEntity(tt.entity, sentence)

		var malformed *MalformedSpanError
		s.Require().True(errors.As(err, &malformed))
		s.Equal(tt.entity, malformed.Entity)
		s.Equal(12, malformed.SentenceLength)
	}
}

func (s *OffsetSuite) Test_MapSentence() {
	sentence := Sentence{Text: "Barack Obama ist", Begin: 10, Length: 16}

	got, err := MapSentence([]RawEntity{
		{Label: "PER", Begin: 7, End: 12, Word: "Obama"},
		{Label: "PER", Begin: 0, End: 6, Word: "Barack"},
	}, sentence)

	s.Require().NoError(err)
	s.Equal([]MappedPrediction{
		{Label: "PER", Begin: 17, End: 22},
		{Label: "PER", Begin: 10, End: 16},
	}, got)

	_, err = MapSentence([]RawEntity{
		{Label: "PER", Begin: 0, End: 6, Word: "Barack"},
		{Label: "PER", Begin: 7, End: 99, Word: "Obama"},
	}, sentence)
	var malformed *MalformedSpanError
	s.True(errors.As(err, &malformed))
}
