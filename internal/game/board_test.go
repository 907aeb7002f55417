package game

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// поле с боузерами в заданных позициях и посчитанными уровнями
func mustBoard(t *testing.T, dimension int, mines ...Position) *Board {
	t.Helper()
	b, err := NewBoard(dimension, nil)
	if err != nil {
		t.Fatalf("NewBoard(%d): %v", dimension, err)
	}
	if err := b.PlaceMinesAt(mines); err != nil {
		t.Fatalf("PlaceMinesAt: %v", err)
	}
	b.ComputeDangerLevels()
	return b
}

func countMines(b *Board) int {
	n := 0
	for _, c := range b.cells {
		if c.IsMine {
			n++
		}
	}
	return n
}

func TestNewBoard(t *testing.T) {
	t.Run("rejects non-positive dimension", func(t *testing.T) {
		for _, d := range []int{0, -1, -10} {
			if _, err := NewBoard(d, nil); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewBoard(%d): expected ErrInvalidConfig, got %v", d, err)
			}
		}
	})

	t.Run("every position present once with defaults", func(t *testing.T) {
		b, err := NewBoard(5, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if b.Size() != 25 {
			t.Fatalf("expected 25 cells, got %d", b.Size())
		}
		seen := make(map[Position]bool)
		for y := 0; y < 5; y++ {
			for x := 0; x < 5; x++ {
				c, ok := b.CellAt(x, y)
				if !ok {
					t.Fatalf("cell (%d, %d) missing", x, y)
				}
				if c.X != x || c.Y != y {
					t.Errorf("cell at (%d, %d) reports (%d, %d)", x, y, c.X, c.Y)
				}
				if c.IsMine || c.IsRevealed || c.DangerLevel != 0 {
					t.Errorf("cell (%d, %d) not fresh: %+v", x, y, *c)
				}
				seen[c.Position()] = true
			}
		}
		if len(seen) != 25 {
			t.Errorf("expected 25 unique positions, got %d", len(seen))
		}
	})
}

func TestCellAt_OutOfBounds(t *testing.T) {
	b, _ := NewBoard(3, nil)
	for _, p := range []Position{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {3, 3}} {
		if c, ok := b.CellAt(p.X, p.Y); ok || c != nil {
			t.Errorf("CellAt(%d, %d): expected not found", p.X, p.Y)
		}
	}
}

func TestPlaceMines_ExactCount(t *testing.T) {
	rng := newTestRand(42)
	for d := 1; d <= 8; d++ {
		for m := 0; m < d*d; m++ {
			b, _ := NewBoard(d, rng)
			if err := b.PlaceMines(m); err != nil {
				t.Fatalf("d=%d m=%d: %v", d, m, err)
			}
			if got := countMines(b); got != m {
				t.Fatalf("d=%d m=%d: placed %d mines", d, m, got)
			}
			if b.MineCount() != m {
				t.Fatalf("d=%d m=%d: MineCount()=%d", d, m, b.MineCount())
			}
			if len(b.AllMineCells()) != m {
				t.Fatalf("d=%d m=%d: AllMineCells returned %d", d, m, len(b.AllMineCells()))
			}
		}
	}
}

func TestPlaceMines_InvalidCount(t *testing.T) {
	b, _ := NewBoard(3, nil)
	for _, m := range []int{-1, 9, 10} {
		if err := b.PlaceMines(m); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("PlaceMines(%d): expected ErrInvalidConfig, got %v", m, err)
		}
	}
	if countMines(b) != 0 {
		t.Errorf("failed placement must not leave mines behind")
	}
}

func TestPlaceMines_OnlyOnce(t *testing.T) {
	b, _ := NewBoard(4, newTestRand(1))
	if err := b.PlaceMines(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.PlaceMines(3); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("second PlaceMines: expected ErrInvalidConfig, got %v", err)
	}
	if countMines(b) != 3 {
		t.Errorf("expected 3 mines, got %d", countMines(b))
	}
}

// источник, который всегда выдает одну и ту же клетку, кроме шага тасовки
type constRand struct{}

func (constRand) IntN(n int) int { return 0 }

func TestPlaceMines_DenseBoardTerminates(t *testing.T) {
	// с постоянным источником выборка с отбраковкой зациклилась бы,
	// плотное поле идет через тасовку
	b, _ := NewBoard(4, constRand{})
	if err := b.PlaceMines(15); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := countMines(b); got != 15 {
		t.Fatalf("expected 15 mines, got %d", got)
	}
}

func TestPlaceMinesAt(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		b, _ := NewBoard(3, nil)
		err := b.PlaceMinesAt([]Position{{1, 1}, {1, 1}})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
	t.Run("out of range", func(t *testing.T) {
		b, _ := NewBoard(3, nil)
		err := b.PlaceMinesAt([]Position{{3, 0}})
		if !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds, got %v", err)
		}
	})
	t.Run("whole board", func(t *testing.T) {
		b, _ := NewBoard(1, nil)
		err := b.PlaceMinesAt([]Position{{0, 0}})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

// уровень опасности по определению: перебор всех клеток поля
func bruteDanger(b *Board, x, y int) int {
	n := 0
	for _, c := range b.cells {
		if c.X == x && c.Y == y {
			continue
		}
		dx, dy := c.X-x, c.Y-y
		if dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 && c.IsMine {
			n++
		}
	}
	return n
}

func TestComputeDangerLevels_MatchesNeighbourhood(t *testing.T) {
	rng := newTestRand(7)
	for i := 0; i < 50; i++ {
		d := 1 + rng.IntN(12)
		b, _ := NewBoard(d, rng)
		if err := b.PlaceMines(rng.IntN(d * d)); err != nil {
			t.Fatalf("PlaceMines: %v", err)
		}
		b.ComputeDangerLevels()
		for _, c := range b.cells {
			if c.IsMine {
				continue
			}
			if want := bruteDanger(b, c.X, c.Y); c.DangerLevel != want {
				t.Fatalf("d=%d cell (%d, %d): danger %d, want %d", d, c.X, c.Y, c.DangerLevel, want)
			}
		}
	}
}

func TestComputeDangerLevels_NoWraparound(t *testing.T) {
	// боузер в правом столбце не должен влиять на левый столбец
	b := mustBoard(t, 4, Position{3, 1})
	for y := 0; y < 4; y++ {
		c, _ := b.CellAt(0, y)
		if c.DangerLevel != 0 {
			t.Errorf("cell (0, %d): expected 0, got %d", y, c.DangerLevel)
		}
	}
	c, _ := b.CellAt(2, 0)
	if c.DangerLevel != 1 {
		t.Errorf("cell (2, 0): expected 1, got %d", c.DangerLevel)
	}
}

func TestComputeDangerLevels_Surrounded(t *testing.T) {
	var ring []Position
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x != 1 || y != 1 {
				ring = append(ring, Position{x, y})
			}
		}
	}
	b := mustBoard(t, 3, ring...)
	c, _ := b.CellAt(1, 1)
	if c.DangerLevel != 8 {
		t.Fatalf("expected 8, got %d", c.DangerLevel)
	}
}

func TestNeighbors(t *testing.T) {
	b := mustBoard(t, 5, Position{1, 0})

	tests := []struct {
		name         string
		x, y         int
		includeMines bool
		want         int
	}{
		{"corner", 0, 0, true, 3},
		{"corner without mines", 0, 0, false, 2},
		{"edge", 2, 0, true, 5},
		{"edge without mines", 2, 0, false, 4},
		{"interior", 2, 2, true, 8},
		{"opposite corner", 4, 4, false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Neighbors(tt.x, tt.y, tt.includeMines)
			if len(got) != tt.want {
				t.Fatalf("expected %d neighbours, got %d", tt.want, len(got))
			}
			for _, n := range got {
				if n.X == tt.x && n.Y == tt.y {
					t.Errorf("cell is its own neighbour")
				}
				if !tt.includeMines && n.IsMine {
					t.Errorf("mine (%d, %d) returned with includeMines=false", n.X, n.Y)
				}
			}
		})
	}
}
