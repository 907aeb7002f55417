package game

import "errors"

var (
	// неверные параметры поля: размер <= 0 или число боузеров вне [0, dimension²)
	ErrInvalidConfig = errors.New("invalid board config")
	// координаты вне поля
	ErrOutOfBounds = errors.New("position out of bounds")
	// RevealMine вызван для безопасной клетки
	ErrNotMine = errors.New("cell is not a mine")
)
