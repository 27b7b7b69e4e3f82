package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "load %s", "energy.csv")

	assert.Equal(t, "load energy.csv: original", wrapped.Error())
	assert.True(t, Is(wrapped, original))
}

func TestMark(t *testing.T) {
	sentinel := New("malformed row")
	err := Mark(Newf("line %d: bad year", 3), sentinel)

	// Marking keeps the message but makes the sentinel matchable.
	assert.Equal(t, "line 3: bad year", err.Error())
	assert.True(t, Is(err, sentinel))
	assert.True(t, Is(Wrap(err, "load"), sentinel))
	assert.True(t, IsAny(err, New("other"), sentinel))
}

func TestWithHint(t *testing.T) {
	err := WithHintf(New("no such file"), "check %q exists", "energy.csv")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, `check "energy.csv" exists`, hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
	assert.NotNil(t, GetStack(err))
}

func TestUserMessage(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Equal(t, "", UserMessage(nil))
	})

	t.Run("without hints", func(t *testing.T) {
		assert.Equal(t, "Error: boom", UserMessage(New("boom")))
	})

	t.Run("hints along the chain", func(t *testing.T) {
		err := WithHint(New("store closed"), "reopen the database")
		err = WithHint(Wrap(err, "query"), "run `energydb load` first")

		msg := UserMessage(err)
		assert.Contains(t, msg, "Error: query: store closed")
		assert.Contains(t, msg, "\nHint: reopen the database")
		assert.Contains(t, msg, "\nHint: run `energydb load` first")
	})
}
