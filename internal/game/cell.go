package game

// Cell - одна клетка поля (блок)
type Cell struct {
	X           int  `json:"x"`
	Y           int  `json:"y"`
	IsMine      bool `json:"-"` // боузер, скрыт от клиента
	IsRevealed  bool `json:"is_revealed"`
	DangerLevel int  `json:"danger_level"` // число соседних боузеров, 0-8
}

// IsBlank - безопасная клетка без соседних боузеров, запускает заливку
func (c *Cell) IsBlank() bool {
	return !c.IsMine && c.DangerLevel == 0
}

// Position - координаты клетки
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c *Cell) Position() Position {
	return Position{X: c.X, Y: c.Y}
}

// RevealedCell - открытая клетка для отрисовки
type RevealedCell struct {
	X           int `json:"x"`
	Y           int `json:"y"`
	DangerLevel int `json:"danger_level"`
}

func toRevealed(cells []*Cell) []RevealedCell {
	out := make([]RevealedCell, 0, len(cells))
	for _, c := range cells {
		out = append(out, RevealedCell{X: c.X, Y: c.Y, DangerLevel: c.DangerLevel})
	}
	return out
}

func toPositions(cells []*Cell) []Position {
	out := make([]Position, 0, len(cells))
	for _, c := range cells {
		out = append(out, c.Position())
	}
	return out
}
