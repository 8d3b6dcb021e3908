package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaqRecordKeywordList(t *testing.T) {
	r := FaqRecord{Keywords: " 有給, 有休 ,, 休暇 "}
	assert.Equal(t, []string{"有給", "有休", "休暇"}, r.KeywordList())
	assert.True(t, r.HasKeyword("有休"))
	assert.False(t, r.HasKeyword(""))
}

func TestFaqRecordLabel(t *testing.T) {
	assert.Equal(t, "年休", FaqRecord{Summary: "年休", Keywords: "有給"}.Label())
	assert.Equal(t, "有給", FaqRecord{Keywords: " 有給 ,有休"}.Label())
}

func TestSessionStateDerivation(t *testing.T) {
	s := NewSession("s1", "hello")
	assert.Equal(t, StateNameEntry, s.State())

	s.UserName = "山田太郎"
	assert.Equal(t, StateMenuBrowsing, s.State())

	s.Topic = &TopicSelection{ID: 0}
	assert.Equal(t, StateTopicDrilldown, s.State())

	s.Escalation = EscalationState{Active: true, Context: "未選択"}
	assert.Equal(t, StateEscalationForm, s.State())

	s.ResetMenu()
	assert.Equal(t, StateMenuBrowsing, s.State())
}

func TestSessionTranscriptIsCopied(t *testing.T) {
	s := NewSession("s1", "hello")
	got := s.Transcript()
	got[0].Content = "changed"

	assert.Equal(t, "hello", s.Transcript()[0].Content)
	assert.Equal(t, 1, s.TranscriptLen())
}

func TestDatasetEmpty(t *testing.T) {
	var d *Dataset
	assert.True(t, d.Empty())
	assert.True(t, (&Dataset{Employees: []string{"a"}}).Empty())
	assert.False(t, (&Dataset{FAQ: []FaqRecord{{Keywords: "a"}}}).Empty())
}
