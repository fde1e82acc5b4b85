package lead

import "testing"

func TestNextQASlot(t *testing.T) {
	record := Record{}
	if got := record.NextQASlot(); got != 1 {
		t.Errorf("empty record: slot = %d, want 1", got)
	}

	record[QuestionField(1)] = "Which area?"
	record[AnswerField(1)] = "De Pijp"
	if got := record.NextQASlot(); got != 2 {
		t.Errorf("one pair: slot = %d, want 2", got)
	}

	for n := 2; n <= MaxQAPairs; n++ {
		record[QuestionField(n)] = "q"
		record[AnswerField(n)] = "a"
	}
	if got := record.NextQASlot(); got != 0 {
		t.Errorf("full record: slot = %d, want 0", got)
	}
}

func TestQACount_RequiresBothSides(t *testing.T) {
	record := Record{
		QuestionField(1): "Which area?",
		AnswerField(1):   "De Pijp",
		QuestionField(2): "dangling question",
	}
	if got := record.QACount(); got != 1 {
		t.Errorf("QACount = %d, want 1", got)
	}
}
