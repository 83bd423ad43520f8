package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		pos      Position
		isValid  bool
	}{
		{
			name:     "Valid position with filename",
			pos:      Position{Filename: "dir/token.yaml", Line: 10, Column: 5},
			isValid:  true,
			expected: "token.yaml:10:5",
		},
		{
			name:     "Valid position without filename",
			pos:      Position{Line: 1, Column: 1},
			isValid:  true,
			expected: "1:1",
		},
		{
			name: "Invalid position - zero line",
			pos:  Position{Line: 0, Column: 1},
		},
		{
			name: "Invalid position - zero column",
			pos:  Position{Line: 1, Column: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.pos.IsValid())
			if tt.isValid {
				assert.Equal(t, tt.expected, tt.pos.String())
			}
		})
	}
}

func TestPositionBefore(t *testing.T) {
	pos1 := Position{Filename: "a.yaml", Line: 1, Column: 5}
	pos2 := Position{Filename: "a.yaml", Line: 1, Column: 10}
	pos3 := Position{Filename: "a.yaml", Line: 2, Column: 1}

	assert.True(t, pos1.Before(pos2))
	assert.True(t, pos2.Before(pos3))
	assert.False(t, pos3.Before(pos1))
}

func TestSpan(t *testing.T) {
	single := Span{
		Start: Position{Filename: "a.yaml", Line: 1, Column: 5},
		End:   Position{Filename: "a.yaml", Line: 1, Column: 10},
	}
	multi := Span{
		Start: Position{Filename: "a.yaml", Line: 1, Column: 5},
		End:   Position{Filename: "a.yaml", Line: 3, Column: 2},
	}

	assert.True(t, single.IsValid())
	assert.Equal(t, "a.yaml:1:5-10", single.String())
	assert.Equal(t, "a.yaml:1:5-3:2", multi.String())
	assert.Equal(t, "<unknown>", Span{}.String())
	assert.Equal(t, multi, single.Union(multi))
	assert.Equal(t, single, Span{}.Union(single))
}

func TestPoint(t *testing.T) {
	span := Point("a.yaml", 4, 7)
	assert.True(t, span.IsValid())
	assert.Equal(t, "a.yaml:4:7-8", span.String())
}

func TestSourceFileLine(t *testing.T) {
	file := NewSourceFile("a.yaml", "first\nsecond\n")
	assert.Equal(t, "second", file.Line(2))
	assert.Equal(t, "", file.Line(0))
	assert.Equal(t, "", file.Line(9))
}
