package game

import (
	"fmt"
	"math/rand/v2"
)

// Rand - источник случайности для расстановки боузеров.
// *rand.Rand из math/rand/v2 подходит напрямую.
type Rand interface {
	IntN(n int) int
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

// Board владеет всеми клетками поля dimension×dimension
type Board struct {
	dimension   int
	mineCount   int
	cells       []*Cell // индекс y*dimension + x
	rng         Rand
	minesPlaced bool
}

// создает пустое поле: без боузеров, все клетки закрыты
func NewBoard(dimension int, rng Rand) (*Board, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, dimension)
	}
	if rng == nil {
		rng = defaultRand{}
	}

	cells := make([]*Cell, dimension*dimension)
	for y := 0; y < dimension; y++ {
		for x := 0; x < dimension; x++ {
			cells[y*dimension+x] = &Cell{X: x, Y: y}
		}
	}

	return &Board{
		dimension: dimension,
		cells:     cells,
		rng:       rng,
	}, nil
}

func (b *Board) Dimension() int { return b.dimension }
func (b *Board) MineCount() int { return b.mineCount }
func (b *Board) Size() int      { return len(b.cells) }

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.dimension && y >= 0 && y < b.dimension
}

// CellAt возвращает клетку или false если координаты вне поля
func (b *Board) CellAt(x, y int) (*Cell, bool) {
	if !b.inBounds(x, y) {
		return nil, false
	}
	return b.cells[y*b.dimension+x], true
}

func (b *Board) validateMineCount(count int) error {
	if b.minesPlaced {
		return fmt.Errorf("%w: mines already placed", ErrInvalidConfig)
	}
	if count < 0 || count >= len(b.cells) {
		return fmt.Errorf("%w: mine count must be in [0, %d), got %d", ErrInvalidConfig, len(b.cells), count)
	}
	return nil
}

// PlaceMines расставляет ровно count боузеров в случайные клетки.
//
// Пока боузеры занимают не больше половины поля, используется выборка
// с отбраковкой: случайная клетка, повтор если там уже боузер. Время работы
// не детерминировано, но почти наверняка конечно. На плотных полях
// перемешиваем все индексы и берем первые count.
func (b *Board) PlaceMines(count int) error {
	if err := b.validateMineCount(count); err != nil {
		return err
	}

	total := len(b.cells)
	if count*2 <= total {
		placed := 0
		for placed < count {
			c := b.cells[b.rng.IntN(total)]
			if c.IsMine {
				continue
			}
			c.IsMine = true
			placed++
		}
	} else {
		indexes := make([]int, total)
		for i := range indexes {
			indexes[i] = i
		}
		// Фишер-Йейтс, только первые count позиций
		for i := 0; i < count; i++ {
			j := i + b.rng.IntN(total-i)
			indexes[i], indexes[j] = indexes[j], indexes[i]
		}
		for _, idx := range indexes[:count] {
			b.cells[idx].IsMine = true
		}
	}

	b.mineCount = count
	b.minesPlaced = true
	return nil
}

// PlaceMinesAt ставит боузеры в заданные позиции (повторы и выход за поле - ошибка)
func (b *Board) PlaceMinesAt(positions []Position) error {
	if err := b.validateMineCount(len(positions)); err != nil {
		return err
	}

	seen := make(map[Position]bool, len(positions))
	for _, p := range positions {
		if !b.inBounds(p.X, p.Y) {
			return fmt.Errorf("%w: mine at (%d, %d)", ErrOutOfBounds, p.X, p.Y)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate mine at (%d, %d)", ErrInvalidConfig, p.X, p.Y)
		}
		seen[p] = true
	}

	for p := range seen {
		b.cells[p.Y*b.dimension+p.X].IsMine = true
	}
	b.mineCount = len(positions)
	b.minesPlaced = true
	return nil
}

// ComputeDangerLevels считает соседних боузеров для каждой безопасной клетки.
// Значение у самих боузеров остается 0 и игрой не читается.
func (b *Board) ComputeDangerLevels() {
	for _, c := range b.cells {
		if c.IsMine {
			c.DangerLevel = 0
			continue
		}
		level := 0
		for _, n := range b.Neighbors(c.X, c.Y, true) {
			if n.IsMine {
				level++
			}
		}
		c.DangerLevel = level
	}
}

// Neighbors - до 8 соседей клетки, обрезано по краям поля.
// При includeMines=false боузеры отфильтровываются.
func (b *Board) Neighbors(x, y int, includeMines bool) []*Cell {
	out := make([]*Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n, ok := b.CellAt(x+dx, y+dy)
			if !ok {
				continue
			}
			if !includeMines && n.IsMine {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// AllMineCells возвращает всех боузеров для показа в конце игры
func (b *Board) AllMineCells() []*Cell {
	out := make([]*Cell, 0, b.mineCount)
	for _, c := range b.cells {
		if c.IsMine {
			out = append(out, c)
		}
	}
	return out
}

// количество открытых клеток (для проверок и снапшотов)
func (b *Board) revealedCount() int {
	n := 0
	for _, c := range b.cells {
		if c.IsRevealed {
			n++
		}
	}
	return n
}
