package redaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	perrors "medreport-probe/pkg/errors"
)

func TestRedactor_String(t *testing.T) {
	r := New(ModeRedact, "sk-live-123456", "", "ab")
	out := r.String("error: invalid key sk-live-123456 (ab)")
	assert.Equal(t, "error: invalid key ***REDACTED*** (ab)", out)
}

func TestRedactor_Hash(t *testing.T) {
	r := New(ModeHash, "sk-live-123456")
	a := r.String("key=sk-live-123456")
	assert.True(t, strings.HasPrefix(a, "key=hash:"))
	assert.NotContains(t, a, "sk-live")
	assert.Equal(t, a, r.String("key=sk-live-123456"))

	salted := New(ModeHash, "sk-live-123456").WithSalt("run-1")
	assert.NotEqual(t, a, salted.String("key=sk-live-123456"))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRedact, "redact": ModeRedact, "HASH": ModeHash, " hash ": ModeHash} {
		got, err := ParseMode(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("mask")
	assert.ErrorIs(t, err, perrors.ErrInvalidArg)
}

func TestRedactor_NilAndEmpty(t *testing.T) {
	var r *Redactor
	assert.Equal(t, "plain", r.String("plain"))
	assert.Equal(t, "plain", New(ModeRedact).String("plain"))
}
