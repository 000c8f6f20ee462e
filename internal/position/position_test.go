package position

import "testing"

func TestPositionValidity(t *testing.T) {
	tests := []struct {
		name  string
		pos   Position
		valid bool
	}{
		{"valid", Position{Line: 1, Column: 1, Offset: 0}, true},
		{"zero line", Position{Line: 0, Column: 1, Offset: 0}, false},
		{"zero column", Position{Line: 1, Column: 0, Offset: 0}, false},
		{"negative offset", Position{Line: 1, Column: 1, Offset: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSpanPlaceholder(t *testing.T) {
	if !(Span{}).IsPlaceholder() {
		t.Error("zero span must be a placeholder")
	}

	real := Span{
		Start: Position{Line: 3, Column: 1, Offset: 20},
		End:   Position{Line: 3, Column: 5, Offset: 24},
	}
	if real.IsPlaceholder() {
		t.Error("positioned span must not be a placeholder")
	}
}

func TestFirstReal(t *testing.T) {
	real := Span{
		Start: Position{Line: 2, Column: 3, Offset: 10},
		End:   Position{Line: 2, Column: 8, Offset: 15},
	}

	got := FirstReal(Span{}, real, Span{})
	if got != real {
		t.Errorf("FirstReal skipped the real span, got %v", got)
	}

	if got := FirstReal(Span{}, Span{}); !got.IsPlaceholder() {
		t.Errorf("FirstReal over placeholders must return the zero span, got %v", got)
	}
}

func TestSpanUnion(t *testing.T) {
	a := Span{
		Start: Position{Filename: "m.src", Line: 1, Column: 1, Offset: 0},
		End:   Position{Filename: "m.src", Line: 1, Column: 5, Offset: 4},
	}
	b := Span{
		Start: Position{Filename: "m.src", Line: 2, Column: 1, Offset: 10},
		End:   Position{Filename: "m.src", Line: 2, Column: 4, Offset: 13},
	}

	u := a.Union(b)
	if u.Start != a.Start || u.End != b.End {
		t.Errorf("Union() = %v", u)
	}
}

func TestSourceFileLine(t *testing.T) {
	sf := NewSourceFile("m.src", "Let a = 1.\r\nLet b = 2.\n")

	if line := sf.Line(2); line != "Let b = 2." {
		t.Errorf("Line(2) = %q", line)
	}
	if line := sf.Line(0); line != "" {
		t.Errorf("Line(0) = %q, want empty", line)
	}
	if line := sf.Line(99); line != "" {
		t.Errorf("Line(99) = %q, want empty", line)
	}
}

func TestSourceFileExcerpt(t *testing.T) {
	sf := NewSourceFile("m.src", "Let a = 1.\nLet bb = 2.\n")

	span := Span{
		Start: Position{Filename: "m.src", Line: 2, Column: 5, Offset: 15},
		End:   Position{Filename: "m.src", Line: 2, Column: 7, Offset: 17},
	}
	want := "Let bb = 2.\n    ^^"
	if got := sf.Excerpt(span); got != want {
		t.Errorf("Excerpt() = %q, want %q", got, want)
	}

	if got := sf.Excerpt(Span{}); got != "" {
		t.Errorf("placeholder span excerpt = %q, want empty", got)
	}

	past := Span{
		Start: Position{Filename: "m.src", Line: 40, Column: 1, Offset: 0},
		End:   Position{Filename: "m.src", Line: 40, Column: 2, Offset: 1},
	}
	if got := sf.Excerpt(past); got != "" {
		t.Errorf("out-of-range excerpt = %q, want empty", got)
	}
}
