package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(NewNotFound("post not found"), KindNotFound))
	assert.True(t, IsKind(NewConflict("already hidden"), KindConflict))
	assert.True(t, IsKind(NewForbidden("not yours"), KindForbidden))
	assert.True(t, IsKind(NewInvalidArgument("same value"), KindInvalidArgument))

	assert.False(t, IsKind(NewNotFound("post not found"), KindConflict))
	assert.False(t, IsKind(fmt.Errorf("plain failure"), KindNotFound))
	assert.False(t, IsKind(nil, KindNotFound))
}

func TestIsKindWrapped(t *testing.T) {
	wrapped := fmt.Errorf("while voting: %w", NewNotFound("post not found"))
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestPolicyErrorMessage(t *testing.T) {
	err := NewConflict("you already liked this")
	assert.Equal(t, "you already liked this", err.Error())
}
