package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtension(t *testing.T) {
	for in, want := range map[string]Extension{"jpg": ExtJPG, ".JPEG": ExtJPG, "png": ExtPNG, ".Png": ExtPNG} {
		got, err := ParseExtension(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseExtension("gif")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseBehavior(t *testing.T) {
	for in, want := range map[string]Behavior{"": BehaviorCopy, "copy": BehaviorCopy, "cut": BehaviorCut, "Move": BehaviorCut} {
		got, err := ParseBehavior(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBehavior("link")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseConflictPolicy(t *testing.T) {
	for in, want := range map[string]ConflictPolicy{"replace": ConflictReplace, "postfix": ConflictPostfix, "add": ConflictPostfix, "CANCEL": ConflictCancel} {
		got, err := ParseConflictPolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseConflictPolicy("")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestNormalizeFolder(t *testing.T) {
	assert.Equal(t, "a/b", NormalizeFolder("/a/b/"))
	assert.Equal(t, "a/b", NormalizeFolder(` a\b `))
	assert.Equal(t, "", NormalizeFolder("/"))
}

func TestRequest_FileName(t *testing.T) {
	assert.Equal(t, "cat.png", Request{BaseName: "cat", Extension: ExtPNG}.FileName())
}
