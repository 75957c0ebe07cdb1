package idgen

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_NewID(t *testing.T) {
	g := Counter{}
	assert.Equal(t, "task-1", g.NewID(KindTask, 1))
	assert.Equal(t, "project-7", g.NewID(KindProject, 7))
	assert.Equal(t, "team-0", g.NewID(KindTeam, 0))
}

func TestUUID_NewID(t *testing.T) {
	g := UUID{}
	a := g.NewID(KindTask, 1)
	b := g.NewID(KindTask, 1)

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestNew(t *testing.T) {
	assert.IsType(t, UUID{}, New("uuid"))
	assert.IsType(t, Counter{}, New("counter"))
	assert.IsType(t, Counter{}, New("bogus"))
}

func TestSeq(t *testing.T) {
	tests := []struct {
		id   string
		want int
		ok   bool
	}{
		{"task-12", 12, true},
		{"task-0", 0, true},
		{"project-3", 0, false},
		{"task-", 0, false},
		{"task-x", 0, false},
		{"5f0c3a2e-0000-4000-8000-000000000000", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := Seq(KindTask, tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextSeq(t *testing.T) {
	ids := []string{"task-3", "task-10", "project-50", "abc"}

	assert.Equal(t, 11, NextSeq(KindTask, 1, ids))
	assert.Equal(t, 20, NextSeq(KindTask, 20, ids))
	assert.Equal(t, 1, NextSeq(KindTeam, 1, ids))
}
