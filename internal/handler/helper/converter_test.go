package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertOptionsToObjects(t *testing.T) {
	got := ConvertOptionsToObjects([]string{"12", "24"})

	require.Len(t, got, 2)
	assert.Equal(t, QuestionOption{ID: 0, Text: "12"}, got[0])
	assert.Equal(t, QuestionOption{ID: 1, Text: "24"}, got[1])
}

func TestConvertAnswerKeys(t *testing.T) {
	got, err := ConvertAnswerKeys(map[string]string{"1": "24", " 10 ": "15"})
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "24", 10: "15"}, got)

	for _, bad := range []string{"satu", "0", "-3", ""} {
		_, err := ConvertAnswerKeys(map[string]string{bad: "24"})
		assert.Error(t, err, "Ключ %q должен отклоняться", bad)
	}
}

func TestFormatOptional(t *testing.T) {
	score := 7
	anxiety := 2.666
	assert.Equal(t, "", FormatInt(nil))
	assert.Equal(t, "7", FormatInt(&score))
	assert.Equal(t, "", FormatFloat(nil))
	assert.Equal(t, "2.67", FormatFloat(&anxiety))
}
