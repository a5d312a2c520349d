package annotation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/model"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/testhelpers"
)

var obamaRequest = Request{
	Document: Document{
		Text:     testhelpers.ObamaText,
		Language: "de",
	},
	Sentences: []SentenceSpan{{Begin: 0, End: 74}, {Begin: 76, End: 143}},
}

var obamaPredictions = []MappedPrediction{
	{Label: "PER", Begin: 0, End: 12},
	{Label: "MISC", Begin: 21, End: 38},
	{Label: "ORG", Begin: 53, End: 74},
	{Label: "LOC", Begin: 123, End: 142},
}

type AnnotatorSuite struct {
	suite.Suite
}

func TestAnnotatorSuite(t *testing.T) {
	suite.Run(t, new(AnnotatorSuite))
}

func (s *AnnotatorSuite) annotator(predictor model.Predictor, batchSize int) *Annotator {
	a, err := NewAnnotator(NewGateway(predictor, 1, nil), Options{BatchSize: batchSize, Metrics: metrics.New()})
	s.Require().NoError(err)
	return a
}

func (s *AnnotatorSuite) Test_Annotate_ReferenceDocument() {
	for _, leadingSpace := range []bool{false, true} {
		predictor := testhelpers.DictionaryPredictor{Terms: testhelpers.ObamaTerms, LeadingSpace: leadingSpace}

		got, err := s.annotator(predictor, 128).Annotate(context.Background(), obamaRequest)

		s.Require().NoError(err)
		s.Equal(obamaPredictions, got.Predictions)
		s.Nil(got.Meta)
	}
}

func (s *AnnotatorSuite) Test_Annotate_Reproducible() {
	predictor := testhelpers.DictionaryPredictor{Terms: testhelpers.ObamaTerms, LeadingSpace: true}
	a := s.annotator(predictor, 1)

	first, err := a.Annotate(context.Background(), obamaRequest)
	s.Require().NoError(err)
	firstJSON, err := json.Marshal(first)
	s.Require().NoError(err)

	for i := 0; i < 5; i++ {
		again, err := a.Annotate(context.Background(), obamaRequest)
		s.Require().NoError(err)
		againJSON, err := json.Marshal(again)
		s.Require().NoError(err)
		s.Equal(string(firstJSON), string(againJSON))
	}
}

func (s *AnnotatorSuite) Test_Annotate_BatchSizeDoesNotMatter() {
	text, spans := repeatedDocument(9)
	req := Request{Document: Document{Text: text, Language: "de"}, Sentences: spans}
	predictor := testhelpers.DictionaryPredictor{Terms: testhelpers.ObamaTerms, LeadingSpace: true}

	want, err := s.annotator(predictor, len(spans)).Annotate(context.Background(), req)
	s.Require().NoError(err)
	s.Len(want.Predictions, 4*9)

	for _, size := range []int{1, 2, 4, 5, 128} {
		got, err := s.annotator(predictor, size).Annotate(context.Background(), req)
		s.Require().NoError(err)
		s.Equal(want.Predictions, got.Predictions, "batch size %d", size)
	}
}

func (s *AnnotatorSuite) Test_Annotate_OffsetContainment() {
	text, spans := repeatedDocument(6)
	req := Request{Document: Document{Text: text}, Sentences: spans}
	predictor := testhelpers.DictionaryPredictor{Terms: testhelpers.ObamaTerms, LeadingSpace: true}

	sentences, err := ExtractSentences(req.Document, req.Sentences)
	s.Require().NoError(err)
	raw, err := predictor.Predict(context.Background(), sentenceTexts(sentences))
	s.Require().NoError(err)

	got, err := s.annotator(predictor, 4).Annotate(context.Background(), req)
	s.Require().NoError(err)

	// predictions come out grouped by sentence, so walk both in step
	i := 0
	runes := []rune(text)
	for si, sentence := range sentences {
		for _, entity := range raw[si] {
			p := got.Predictions[i]
			s.GreaterOrEqual(p.Begin, sentence.Begin)
			s.LessOrEqual(p.Begin, p.End)
			s.LessOrEqual(p.End, sentence.Begin+sentence.Length)
			s.Equal(strings.TrimSpace(entity.Word), string(runes[p.Begin:p.End]))
			i++
		}
	}
	s.Equal(len(got.Predictions), i)
}

func (s *AnnotatorSuite) Test_Annotate_OutOfBounds() {
	predictor := &testhelpers.MockPredictor{}
	req := Request{
		Document:  Document{Text: strings.Repeat("a", 50), Language: "en"},
		Sentences: []SentenceSpan{{Begin: 0, End: 10_000}},
	}

	got, err := s.annotator(predictor, 8).Annotate(context.Background(), req)

	var oob *OutOfBoundsError
	s.True(errors.As(err, &oob))
	s.Nil(got.Predictions)
	predictor.AssertNotCalled(s.T(), "Predict", mock.Anything, mock.Anything)
}

func (s *AnnotatorSuite) Test_Annotate_NoSentences() {
	predictor := &testhelpers.MockPredictor{}

	got, err := s.annotator(predictor, 8).Annotate(context.Background(), Request{Document: Document{Text: "text"}})

	s.Require().NoError(err)
	s.NotNil(got.Predictions)
	s.Empty(got.Predictions)
	predictor.AssertNotCalled(s.T(), "Predict", mock.Anything, mock.Anything)
}

func (s *AnnotatorSuite) Test_Annotate_MalformedModelOutput() {
	predictor := &testhelpers.MockPredictor{}
	predictor.On("Predict", mock.Anything, []string{"Barack Obama"}).Return([][]model.Entity{
		{{Label: "PER", Begin: 7, End: 20, Word: "Obama"}},
	}, nil).Once()

	got, err := s.annotator(predictor, 8).Annotate(context.Background(), Request{
		Document:  Document{Text: "Barack Obama"},
		Sentences: []SentenceSpan{{Begin: 0, End: 12}},
	})

	var malformed *MalformedSpanError
	s.True(errors.As(err, &malformed))
	s.Nil(got.Predictions)
	predictor.AssertExpectations(s.T())
}

func (s *AnnotatorSuite) Test_Annotate_InferenceError() {
	predictor := &testhelpers.MockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	_, err := s.annotator(predictor, 8).Annotate(context.Background(), obamaRequest)

	var inferenceErr *InferenceError
	s.True(errors.As(err, &inferenceErr))
	predictor.AssertExpectations(s.T())
}

func (s *AnnotatorSuite) Test_Annotate_Timeout() {
	predictor := &testhelpers.MockPredictor{}
	predictor.On("Predict", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(30 * time.Millisecond) }).
		Return([][]model.Entity{{}}, nil)

	a, err := NewAnnotator(NewGateway(predictor, 1, nil), Options{BatchSize: 1, Timeout: 10 * time.Millisecond})
	s.Require().NoError(err)

	_, err = a.Annotate(context.Background(), obamaRequest)

	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *AnnotatorSuite) Test_NewAnnotator_InvalidBatchSize() {
	_, err := NewAnnotator(NewGateway(&testhelpers.MockPredictor{}, 1, nil), Options{BatchSize: 0})

	s.ErrorIs(err, ErrInvalidBatchSize)
}

// repeatedDocument joins n copies of the reference sentences with newlines and
// returns the text with one span per sentence.
func repeatedDocument(n int) (string, []SentenceSpan) {
	sentences := []string{
		"Barack Obama ist ein US-amerikanischer Politiker der Demokratischen Partei.",
		"Er war von 2009 bis 2017 der 44. Präsident der Vereinigten Staaten.",
	}

	var b strings.Builder
	var spans []SentenceSpan
	pos := 0
	for i := 0; i < n; i++ {
		for _, sentence := range sentences {
			if pos > 0 {
				b.WriteString("\n")
				pos++
			}
			length := len([]rune(sentence))
			b.WriteString(sentence)
			spans = append(spans, SentenceSpan{Begin: pos, End: pos + length})
			pos += length
		}
	}
	return b.String(), spans
}
