package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/annotation"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/language"
)

type controller struct {
	annotator          *annotation.Annotator
	languages          *language.Matcher
	strictLanguage     bool
	documentation      Documentation
	communicationLayer string
}

func (c controller) Process(ctx context.Context, body io.Reader) (annotation.Response, error) {
	var req annotation.Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return annotation.Response{}, NewHttpError(http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", maxBytesErr.Limit))
		}
		return annotation.Response{}, NewHttpError(http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
	}

	if !c.languages.Supported(req.Language) {
		if c.strictLanguage {
			return annotation.Response{}, NewHttpError(http.StatusBadRequest,
				fmt.Errorf("language %q is not supported", req.Language))
		}
		log.Warn().Str("language", req.Language).Msg("annotating document in unsupported language")
	}

	res, err := c.annotator.Annotate(ctx, req)
	if err != nil {
		return annotation.Response{}, classify(err)
	}
	return res, nil
}

// classify maps pipeline errors onto status codes.
func classify(err error) error {
	var outOfBounds *annotation.OutOfBoundsError
	var inference *annotation.InferenceError
	var malformed *annotation.MalformedSpanError
	switch {
	case errors.As(err, &outOfBounds):
		return NewHttpError(http.StatusBadRequest, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return NewHttpError(http.StatusServiceUnavailable, err)
	case errors.As(err, &inference), errors.As(err, &malformed):
		return NewHttpError(http.StatusInternalServerError, err)
	default:
		return err
	}
}

func (c controller) Documentation() Documentation {
	return c.documentation
}

func (c controller) CommunicationLayer() ([]byte, error) {
	b, err := os.ReadFile(c.communicationLayer)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewHttpError(http.StatusNotFound, errors.New("no communication layer configured"))
	}
	return b, err
}
