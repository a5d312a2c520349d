package testhelpers

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/stretchr/testify/mock"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/model"
)

// MockPredictor is a testify mock of model.Predictor.
type MockPredictor struct {
	mock.Mock
}

func (m *MockPredictor) Predict(ctx context.Context, texts []string) ([][]model.Entity, error) {
	args := m.Called(ctx, texts)
	entities, _ := args.Get(0).([][]model.Entity)
	return entities, args.Error(1)
}

func (m *MockPredictor) Close() error {
	return m.Called().Error(0)
}

// Term is a dictionary entry of a DictionaryPredictor.
type Term struct {
	Text  string
	Label string
}

// DictionaryPredictor is a deterministic stand-in for a NER model: it reports every
// occurrence of its terms. With LeadingSpace set it mimics tokenizers that glue the
// preceding separator onto the entity, reporting " Obama" at the offset of the space.
type DictionaryPredictor struct {
	Terms        []Term
	LeadingSpace bool
}

func (d DictionaryPredictor) Predict(_ context.Context, texts []string) ([][]model.Entity, error) {
	results := make([][]model.Entity, len(texts))
	for i, text := range texts {
		results[i] = d.find(text)
	}
	return results, nil
}

func (d DictionaryPredictor) Close() error {
	return nil
}

func (d DictionaryPredictor) find(text string) []model.Entity {
	entities := make([]model.Entity, 0)
	for _, term := range d.Terms {
		from := 0
		for {
			idx := strings.Index(text[from:], term.Text)
			if idx < 0 {
				break
			}
			byteBegin := from + idx
			begin := utf8.RuneCountInString(text[:byteBegin])
			entity := model.Entity{
				Label: term.Label,
				Begin: begin,
				End:   begin + utf8.RuneCountInString(term.Text),
				Word:  term.Text,
			}
			if d.LeadingSpace && byteBegin > 0 && text[byteBegin-1] == ' ' {
				entity.Begin--
				entity.Word = " " + term.Text
			}
			entities = append(entities, entity)
			from = byteBegin + len(term.Text)
		}
	}
	sort.SliceStable(entities, func(a, b int) bool {
		return entities[a].Begin < entities[b].Begin
	})
	return entities
}
