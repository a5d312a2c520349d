package annotation

// Assemble flattens per-sentence predictions in sentence order, then in the order
// the model emitted them. Nothing is sorted or deduplicated.
func Assemble(perSentence [][]MappedPrediction) Response {
	total := 0
	for _, predictions := range perSentence {
		total += len(predictions)
	}

	flat := make([]MappedPrediction, 0, total)
	for _, predictions := range perSentence {
		flat = append(flat, predictions...)
	}

	return Response{
		Predictions: flat,
		Meta:        nil,
	}
}
