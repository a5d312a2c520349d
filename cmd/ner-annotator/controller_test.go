package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/annotation"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/testhelpers"
)

type ControllerSuite struct {
	suite.Suite
	controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	srv, err := newServer(testConfig(), testhelpers.DictionaryPredictor{Terms: testhelpers.ObamaTerms}, nil)
	s.Require().NoError(err)
	s.controller = srv.controller
}

func (s *ControllerSuite) Test_controller_Process() {
	got, err := s.Process(context.Background(), strings.NewReader(obamaBody))

	s.Require().NoError(err)
	s.Equal([]annotation.MappedPrediction{
		{Label: "PER", Begin: 0, End: 12},
		{Label: "MISC", Begin: 21, End: 38},
		{Label: "ORG", Begin: 53, End: 74},
		{Label: "LOC", Begin: 123, End: 142},
	}, got.Predictions)
}

func (s *ControllerSuite) Test_controller_Process_TooLarge() {
	w := httptest.NewRecorder()
	body := http.MaxBytesReader(w, io.NopCloser(strings.NewReader(obamaBody)), 16)

	_, err := s.Process(context.Background(), body)

	s.Equal(http.StatusRequestEntityTooLarge, statusOf(err))
}

func (s *ControllerSuite) Test_controller_Process_StrictLanguage() {
	s.strictLanguage = true

	_, err := s.Process(context.Background(), strings.NewReader(`{"text": "Bonjour", "language": "fr", "sentences": []}`))
	s.Equal(http.StatusBadRequest, statusOf(err))

	_, err = s.Process(context.Background(), strings.NewReader(`{"text": "Hallo", "language": "de-AT", "sentences": []}`))
	s.NoError(err)
}

func (s *ControllerSuite) Test_classify() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "span outside the document",
			err:  &annotation.OutOfBoundsError{Index: 0, Span: annotation.SentenceSpan{Begin: 0, End: 10_000}, TextLength: 50},
			want: http.StatusBadRequest,
		},
		{
			name: "model failure",
			err:  &annotation.InferenceError{Batch: 2, Err: errors.New("boom")},
			want: http.StatusInternalServerError,
		},
		{
			name: "malformed model output",
			err:  &annotation.MalformedSpanError{Begin: 5, End: 3, SentenceLength: 10},
			want: http.StatusInternalServerError,
		},
		{
			name: "timed out waiting for the model",
			err:  fmt.Errorf("waiting for model: %w", context.DeadlineExceeded),
			want: http.StatusServiceUnavailable,
		},
		{
			name: "client went away",
			err:  fmt.Errorf("cancelled before batch 3: %w", context.Canceled),
			want: http.StatusServiceUnavailable,
		},
		{
			name: "model call interrupted",
			err:  &annotation.InferenceError{Batch: 0, Err: context.DeadlineExceeded},
			want: http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		s.T().Log(tt.name)
		s.Equal(tt.want, statusOf(classify(tt.err)))
	}

	other := errors.New("unexpected")
	s.Equal(other, classify(other))
}

func (s *ControllerSuite) Test_controller_CommunicationLayer() {
	b, err := s.CommunicationLayer()
	s.Require().NoError(err)
	s.Contains(string(b), "function serialize")

	s.communicationLayer = "missing.lua"
	_, err = s.CommunicationLayer()
	s.Equal(http.StatusNotFound, statusOf(err))
}

func statusOf(err error) int {
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		return httpErr.code
	}
	return 0
}
