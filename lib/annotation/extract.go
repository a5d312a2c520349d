package annotation

// ExtractSentences cuts the text of every span out of the document, keeping the
// order of spans. The order is what later ties predictions back to offsets.
func ExtractSentences(doc Document, spans []SentenceSpan) ([]Sentence, error) {
	runes := []rune(doc.Text)

	sentences := make([]Sentence, len(spans))
	for i, span := range spans {
		if span.Begin < 0 || span.Begin > span.End || span.End > len(runes) {
			return nil, &OutOfBoundsError{
				Index:      i,
				Span:       span,
				TextLength: len(runes),
			}
		}
		sentences[i] = Sentence{
			Text:   string(runes[span.Begin:span.End]),
			Begin:  span.Begin,
			Length: span.End - span.Begin,
		}
	}
	return sentences, nil
}

func sentenceTexts(sentences []Sentence) []string {
	texts := make([]string, len(sentences))
	for i, sentence := range sentences {
		texts[i] = sentence.Text
	}
	return texts
}
