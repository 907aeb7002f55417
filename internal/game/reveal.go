package game

import "fmt"

// RevealFrom открывает клетку и, если она пустая (danger 0), всю связную
// область пустых клеток вместе с пограничными числовыми.
// Возвращает только впервые открытые клетки; порядок не определен.
// Уже открытая клетка, боузер или координаты вне поля дают пустой результат.
func RevealFrom(b *Board, x, y int) []*Cell {
	start, ok := b.CellAt(x, y)
	if !ok || start.IsRevealed || start.IsMine {
		return nil
	}

	start.IsRevealed = true
	revealed := []*Cell{start}
	if start.DangerLevel > 0 {
		return revealed
	}

	// стек вместо рекурсии - глубина не зависит от размера поля
	stack := pushHidden(nil, b.Neighbors(start.X, start.Y, false))
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c.IsRevealed {
			continue
		}
		c.IsRevealed = true
		revealed = append(revealed, c)

		if c.DangerLevel == 0 {
			stack = pushHidden(stack, b.Neighbors(c.X, c.Y, false))
		}
	}

	return revealed
}

func pushHidden(stack, cells []*Cell) []*Cell {
	for _, c := range cells {
		if !c.IsRevealed {
			stack = append(stack, c)
		}
	}
	return stack
}

// RevealMine открывает ровно одного боузера, заливка не запускается
func RevealMine(b *Board, x, y int) (*Cell, error) {
	c, ok := b.CellAt(x, y)
	if !ok {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	if !c.IsMine {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrNotMine, x, y)
	}
	c.IsRevealed = true
	return c, nil
}
