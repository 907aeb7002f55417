package game

import (
	"errors"
	"testing"
)

func positionsOf(cells []*Cell) map[Position]bool {
	out := make(map[Position]bool, len(cells))
	for _, c := range cells {
		out[c.Position()] = true
	}
	return out
}

func TestRevealFrom_ScenarioCornerMine(t *testing.T) {
	b := mustBoard(t, 3, Position{0, 0})

	center, _ := b.CellAt(1, 1)
	if center.DangerLevel != 1 {
		t.Fatalf("(1, 1): expected danger 1, got %d", center.DangerLevel)
	}
	far, _ := b.CellAt(2, 2)
	if far.DangerLevel != 0 {
		t.Fatalf("(2, 2): expected danger 0, got %d", far.DangerLevel)
	}

	revealed := positionsOf(RevealFrom(b, 2, 2))
	if len(revealed) != 8 {
		t.Fatalf("expected 8 revealed cells, got %d", len(revealed))
	}
	if revealed[Position{0, 0}] {
		t.Fatalf("mine (0, 0) revealed by flood fill")
	}
	mine, _ := b.CellAt(0, 0)
	if mine.IsRevealed {
		t.Fatalf("mine flag flipped to revealed")
	}
}

func TestRevealFrom_NumberedCellStops(t *testing.T) {
	b := mustBoard(t, 5, Position{0, 0})
	revealed := RevealFrom(b, 1, 1)
	if len(revealed) != 1 {
		t.Fatalf("expected exactly one cell, got %d", len(revealed))
	}
	if revealed[0].X != 1 || revealed[0].Y != 1 {
		t.Fatalf("wrong cell revealed: (%d, %d)", revealed[0].X, revealed[0].Y)
	}
	if b.revealedCount() != 1 {
		t.Fatalf("board has %d revealed cells, expected 1", b.revealedCount())
	}
}

func TestRevealFrom_Idempotent(t *testing.T) {
	b := mustBoard(t, 6, Position{5, 5})
	first := RevealFrom(b, 0, 0)
	if len(first) == 0 {
		t.Fatalf("first reveal returned nothing")
	}
	if again := RevealFrom(b, 0, 0); len(again) != 0 {
		t.Fatalf("second reveal returned %d cells", len(again))
	}
	for _, c := range first {
		if again := RevealFrom(b, c.X, c.Y); len(again) != 0 {
			t.Fatalf("reveal of (%d, %d) inside region returned %d cells", c.X, c.Y, len(again))
		}
	}
}

func TestRevealFrom_MineStartIsEmpty(t *testing.T) {
	b := mustBoard(t, 3, Position{1, 1})
	if got := RevealFrom(b, 1, 1); len(got) != 0 {
		t.Fatalf("expected empty set for mine start, got %d", len(got))
	}
	c, _ := b.CellAt(1, 1)
	if c.IsRevealed {
		t.Fatalf("mine revealed by RevealFrom")
	}
}

func TestRevealFrom_OutOfBoundsIsEmpty(t *testing.T) {
	b := mustBoard(t, 3)
	if got := RevealFrom(b, 5, 5); len(got) != 0 {
		t.Fatalf("expected empty set, got %d", len(got))
	}
}

func TestRevealFrom_NeverRevealsMines(t *testing.T) {
	rng := newTestRand(99)
	for i := 0; i < 200; i++ {
		d := 2 + rng.IntN(15)
		b, _ := NewBoard(d, rng)
		if err := b.PlaceMines(rng.IntN(d*d - 1)); err != nil {
			t.Fatalf("PlaceMines: %v", err)
		}
		b.ComputeDangerLevels()

		for _, c := range b.cells {
			if c.IsMine {
				continue
			}
			for _, r := range RevealFrom(b, c.X, c.Y) {
				if r.IsMine {
					t.Fatalf("flood fill revealed mine (%d, %d)", r.X, r.Y)
				}
			}
		}
		for _, m := range b.AllMineCells() {
			if m.IsRevealed {
				t.Fatalf("mine (%d, %d) marked revealed", m.X, m.Y)
			}
		}
	}
}

func TestRevealFrom_RegionIsClosed(t *testing.T) {
	// каждая открытая пустая клетка должна иметь всех безопасных соседей открытыми
	rng := newTestRand(5)
	for i := 0; i < 100; i++ {
		d := 3 + rng.IntN(10)
		b, _ := NewBoard(d, rng)
		_ = b.PlaceMines(rng.IntN(d))
		b.ComputeDangerLevels()

		var start *Cell
		for _, c := range b.cells {
			if c.IsBlank() {
				start = c
				break
			}
		}
		if start == nil {
			continue
		}
		for _, c := range RevealFrom(b, start.X, start.Y) {
			if c.DangerLevel != 0 {
				continue
			}
			for _, n := range b.Neighbors(c.X, c.Y, false) {
				if !n.IsRevealed {
					t.Fatalf("blank (%d, %d) has hidden safe neighbour (%d, %d)", c.X, c.Y, n.X, n.Y)
				}
			}
		}
	}
}

func TestRevealFrom_LargeBoardNoRecursion(t *testing.T) {
	b := mustBoard(t, 400)
	got := RevealFrom(b, 200, 200)
	if len(got) != 400*400 {
		t.Fatalf("expected whole board revealed, got %d", len(got))
	}
}

func TestRevealMine(t *testing.T) {
	b := mustBoard(t, 3, Position{0, 0})

	c, err := RevealMine(b, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.IsRevealed {
		t.Fatalf("mine not revealed")
	}
	if b.revealedCount() != 1 {
		t.Fatalf("RevealMine must not flood, %d cells revealed", b.revealedCount())
	}

	if _, err := RevealMine(b, 2, 2); !errors.Is(err, ErrNotMine) {
		t.Errorf("expected ErrNotMine, got %v", err)
	}
	if _, err := RevealMine(b, -1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
