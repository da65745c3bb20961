package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name string
		key  string
		attr slog.Attr
	}{
		{"Stage", KeyStage, Stage("members")},
		{"Compound", KeyCompound, Compound("Base")},
		{"Member", KeyMember, Member("m")},
		{"Group", KeyGroup, Group("api")},
		{"Kind", KeyKind, Kind("ambiguity")},
		{"File", KeyFile, File("a.h")},
		{"Path", KeyPath, Path("/tmp/x")},
		{"RunID", KeyRunID, RunID("r1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.key, tc.attr.Key)
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	assert.Equal(t, int64(12), Line(12).Value.Int64())
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.InDelta(t, 1.5, DurationMS(1.5).Value.Float64(), 1e-9)
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
