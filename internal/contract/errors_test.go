package contract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineError(t *testing.T) {
	cause := errors.New("exit status 128")
	err := NewEngineError(KindCollectionFailed, CodeCollectionFailed, "git log failed", cause).
		WithDetail("project", "demo")

	assert.Equal(t, "[COLLECTION_FAILED] git log failed: exit status 128", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "demo", err.Details["project"])

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, KindCollectionFailed, KindOf(wrapped))
	assert.Equal(t, CodeCollectionFailed, CodeOf(wrapped))
	assert.True(t, errors.Is(wrapped, &EngineError{Kind: KindCollectionFailed}))
	assert.False(t, errors.Is(wrapped, &EngineError{Kind: KindQueryFailed}))
	assert.False(t, errors.Is(wrapped, &EngineError{Kind: KindCollectionFailed, Code: CodeBatchFailed}))
}

func TestEngineErrorWithDetailsCopies(t *testing.T) {
	base := NewEngineError(KindQueryFailed, CodeQueryFailed, "query failed", nil)
	a := base.WithDetail("limit", 10)
	b := a.WithDetail("offset", 5)

	assert.Nil(t, base.Details)
	assert.Len(t, a.Details, 1)
	assert.Len(t, b.Details, 2)
	assert.Equal(t, "[QUERY_FAILED] query failed", base.Error())
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
}
