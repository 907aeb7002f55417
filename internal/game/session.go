package game

import "fmt"

type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusLost
}

// ClickResult - переход состояния после хода, рендерер реагирует на него сам
type ClickResult struct {
	Transition    Status         `json:"transition"`
	RevealedCells []RevealedCell `json:"revealed_cells"`
	AllMines      []Position     `json:"all_mines,omitempty"`
	HitMine       *Position      `json:"hit_mine,omitempty"`
	TurnCount     int            `json:"turn_count"`
	RevealedCount int            `json:"revealed_count"`
	// ход проигнорирован: игра уже окончена
	NoOp bool `json:"no_op,omitempty"`
}

// GameSession - одна партия на одном поле.
// Не потокобезопасна: вызывающий код сериализует доступ сам.
type GameSession struct {
	board         *Board
	turnCount     int
	revealedCount int
	winThreshold  int
	status        Status
}

type sessionOptions struct {
	rng   Rand
	mines []Position
}

type Option func(*sessionOptions)

// WithRand задает источник случайности для расстановки боузеров
func WithRand(r Rand) Option {
	return func(o *sessionOptions) { o.rng = r }
}

// WithMines фиксирует позиции боузеров вместо случайной расстановки
func WithMines(positions []Position) Option {
	return func(o *sessionOptions) { o.mines = positions }
}

// Start строит новое поле (генерация, боузеры, уровни опасности) и начинает партию
func Start(dimension, mineCount int, opts ...Option) (*GameSession, error) {
	var o sessionOptions
	for _, opt := range opts {
		opt(&o)
	}

	board, err := NewBoard(dimension, o.rng)
	if err != nil {
		return nil, err
	}

	if o.mines != nil {
		if len(o.mines) != mineCount {
			return nil, fmt.Errorf("%w: %d mine positions for mine count %d", ErrInvalidConfig, len(o.mines), mineCount)
		}
		err = board.PlaceMinesAt(o.mines)
	} else {
		err = board.PlaceMines(mineCount)
	}
	if err != nil {
		return nil, err
	}
	board.ComputeDangerLevels()

	return &GameSession{
		board:        board,
		winThreshold: board.Size() - mineCount,
		status:       StatusActive,
	}, nil
}

func (s *GameSession) Status() Status     { return s.status }
func (s *GameSession) TurnCount() int     { return s.turnCount }
func (s *GameSession) RevealedCount() int { return s.revealedCount }
func (s *GameSession) WinThreshold() int  { return s.winThreshold }
func (s *GameSession) Dimension() int     { return s.board.Dimension() }
func (s *GameSession) MineCount() int     { return s.board.MineCount() }

func (s *GameSession) noop() ClickResult {
	return ClickResult{
		Transition:    s.status,
		RevealedCells: []RevealedCell{},
		TurnCount:     s.turnCount,
		RevealedCount: s.revealedCount,
		NoOp:          true,
	}
}

// HandleClick обрабатывает клик по клетке (x, y).
// Координаты вне поля - ErrOutOfBounds без изменения состояния.
// После окончания игры клики игнорируются (NoOp).
func (s *GameSession) HandleClick(x, y int) (ClickResult, error) {
	cell, ok := s.board.CellAt(x, y)
	if !ok {
		return ClickResult{}, fmt.Errorf("%w: (%d, %d) on %dx%d board", ErrOutOfBounds, x, y, s.board.Dimension(), s.board.Dimension())
	}
	if s.status != StatusActive {
		return s.noop(), nil
	}

	if cell.IsMine {
		mine, err := RevealMine(s.board, x, y)
		if err != nil {
			return ClickResult{}, err
		}
		s.turnCount++
		s.status = StatusLost
		hit := mine.Position()
		return ClickResult{
			Transition:    StatusLost,
			RevealedCells: []RevealedCell{},
			AllMines:      toPositions(s.board.AllMineCells()),
			HitMine:       &hit,
			TurnCount:     s.turnCount,
			RevealedCount: s.revealedCount,
		}, nil
	}

	revealed := RevealFrom(s.board, x, y)
	s.turnCount++
	s.revealedCount += len(revealed)

	res := ClickResult{
		Transition:    StatusActive,
		RevealedCells: toRevealed(revealed),
		TurnCount:     s.turnCount,
		RevealedCount: s.revealedCount,
	}
	if s.revealedCount == s.winThreshold {
		s.status = StatusWon
		res.Transition = StatusWon
		res.AllMines = toPositions(s.board.AllMineCells())
	}
	return res, nil
}

// Expire завершает партию поражением по истечении времени.
// Идет через ту же машину состояний: после окончания игры это NoOp.
func (s *GameSession) Expire() ClickResult {
	if s.status != StatusActive {
		return s.noop()
	}
	s.status = StatusLost
	return ClickResult{
		Transition:    StatusLost,
		RevealedCells: []RevealedCell{},
		AllMines:      toPositions(s.board.AllMineCells()),
		TurnCount:     s.turnCount,
		RevealedCount: s.revealedCount,
	}
}

// CellState - то, что можно показать клиенту про клетку.
// Статус боузера виден только для открытых клеток или после окончания игры,
// уровень опасности - только для открытых безопасных клеток.
type CellState struct {
	X           int   `json:"x"`
	Y           int   `json:"y"`
	IsRevealed  bool  `json:"is_revealed"`
	IsMine      *bool `json:"is_mine,omitempty"`
	DangerLevel *int  `json:"danger_level,omitempty"`
}

func (s *GameSession) stateOf(c *Cell) CellState {
	st := CellState{X: c.X, Y: c.Y, IsRevealed: c.IsRevealed}
	if c.IsRevealed || s.status.IsTerminal() {
		mine := c.IsMine
		st.IsMine = &mine
	}
	if c.IsRevealed && !c.IsMine {
		level := c.DangerLevel
		st.DangerLevel = &level
	}
	return st
}

func (s *GameSession) CellState(x, y int) (CellState, error) {
	c, ok := s.board.CellAt(x, y)
	if !ok {
		return CellState{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return s.stateOf(c), nil
}

// SessionView - снимок партии для клиента
type SessionView struct {
	Dimension     int         `json:"dimension"`
	MineCount     int         `json:"mine_count"`
	TurnCount     int         `json:"turn_count"`
	RevealedCount int         `json:"revealed_count"`
	WinThreshold  int         `json:"win_threshold"`
	Status        Status      `json:"status"`
	Cells         []CellState `json:"cells"` // построчно, y*dimension + x
}

func (s *GameSession) View() SessionView {
	cells := make([]CellState, 0, s.board.Size())
	for _, c := range s.board.cells {
		cells = append(cells, s.stateOf(c))
	}
	return SessionView{
		Dimension:     s.board.Dimension(),
		MineCount:     s.board.MineCount(),
		TurnCount:     s.turnCount,
		RevealedCount: s.revealedCount,
		WinThreshold:  s.winThreshold,
		Status:        s.status,
		Cells:         cells,
	}
}
