package testhelpers

// ObamaText is the German two-sentence reference document used across tests.
const ObamaText = "Barack Obama ist ein US-amerikanischer Politiker der Demokratischen Partei. Er war von 2009 bis 2017 der 44. Präsident der Vereinigten Staaten."

// ObamaTerms are the entities a German CoNLL model finds in ObamaText.
var ObamaTerms = []Term{
	{Text: "Barack Obama", Label: "PER"},
	{Text: "US-amerikanischer", Label: "MISC"},
	{Text: "Demokratischen Partei", Label: "ORG"},
	{Text: "Vereinigten Staaten", Label: "LOC"},
}
