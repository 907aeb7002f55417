package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bowser_blocks/internal/config"
	"bowser_blocks/internal/domain"
	"bowser_blocks/internal/game"
	"bowser_blocks/internal/logger"
	"bowser_blocks/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrForbidden       = errors.New("session belongs to another player")
	ErrUnknownLevel    = errors.New("unknown level")
	ErrUnavailable     = errors.New("storage is not configured")
)

const customLevelID = "custom"

// типы событий, которые получают подписчики сессии
const (
	EventClick     = "click"
	EventLowTime   = "low_time"
	EventExpired   = "expired"
	EventFinished  = "finished"
	EventAbandoned = "abandoned"
)

// Event - изменение состояния сессии для рендерера
type Event struct {
	Type        string            `json:"type"`
	SessionID   string            `json:"session_id"`
	Status      game.Status       `json:"status"`
	Result      *game.ClickResult `json:"result,omitempty"`
	RemainingMs int64             `json:"remaining_ms,omitempty"`
}

// Publisher доставляет события подписчикам (websocket)
type Publisher interface {
	Publish(sessionID string, evt Event)
}

type GameRecordStore interface {
	Create(ctx context.Context, rec *domain.GameRecord) error
	GetByPlayerID(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error)
	GetPlayerStats(ctx context.Context, playerID string) (*domain.PlayerStats, error)
}

type LeaderboardStore interface {
	Submit(ctx context.Context, levelID, playerID string, durationMs int64) error
	Top(ctx context.Context, levelID string, limit int) ([]domain.LeaderboardEntry, error)
	Rank(ctx context.Context, levelID, playerID string) (int64, error)
}

// Deps - необязательные зависимости сервиса, nil отключает соответствующую часть
type Deps struct {
	Publisher   Publisher
	Records     GameRecordStore
	Leaderboard LeaderboardStore
	Audit       *AuditService
	Metrics     *metrics.Metrics
	// источник случайности для новых полей (тесты)
	NewRand func() game.Rand
	// фиксированная раскладка боузеров (тесты)
	Layout func(dimension, mineCount int) []game.Position
}

// Session - партия в памяти сервера. Все переходы идут под mu:
// клики и таймер не применяются одновременно.
type Session struct {
	ID         string
	PlayerID   string
	Level      config.Level
	StartedAt  time.Time
	Deadline   time.Time
	FinishedAt time.Time

	mu          sync.Mutex
	game        *game.GameSession
	lowTimer    *time.Timer
	expireTimer *time.Timer
}

func (s *Session) stopTimers() {
	if s.lowTimer != nil {
		s.lowTimer.Stop()
	}
	if s.expireTimer != nil {
		s.expireTimer.Stop()
	}
}

func (s *Session) remaining(now time.Time) time.Duration {
	if s.Deadline.IsZero() || now.After(s.Deadline) {
		return 0
	}
	return s.Deadline.Sub(now)
}

// SessionInfo - снимок сессии для клиента
type SessionInfo struct {
	SessionID   string           `json:"session_id"`
	LevelID     string           `json:"level_id"`
	StartedAt   time.Time        `json:"started_at"`
	RemainingMs int64            `json:"remaining_ms"`
	Board       game.SessionView `json:"board"`
}

// StartRequest - уровень по id или произвольные размеры
type StartRequest struct {
	LevelID   string
	Dimension int
	MineCount int
}

// управляет активными партиями
type SessionService struct {
	cfg  *config.Config
	deps Deps
	now  func() time.Time

	mu             sync.RWMutex
	sessions       map[string]*Session // sessionID -> партия
	playerSessions map[string]string   // playerID -> текущая sessionID

	wg sync.WaitGroup
}

func NewSessionService(cfg *config.Config, deps Deps) *SessionService {
	return &SessionService{
		cfg:            cfg,
		deps:           deps,
		now:            time.Now,
		sessions:       make(map[string]*Session),
		playerSessions: make(map[string]string),
	}
}

func (s *SessionService) resolveLevel(req StartRequest) (config.Level, error) {
	if req.LevelID == "" && req.Dimension == 0 && req.MineCount != 0 {
		return config.Level{}, fmt.Errorf("%w: mine count %d without dimension", game.ErrInvalidConfig, req.MineCount)
	}
	if req.LevelID == "" && req.Dimension == 0 {
		req.LevelID = s.cfg.DefaultLevel
	}
	if req.LevelID != "" && req.LevelID != customLevelID {
		l, ok := s.cfg.Level(req.LevelID)
		if !ok {
			return config.Level{}, fmt.Errorf("%w: %q", ErrUnknownLevel, req.LevelID)
		}
		return l, nil
	}
	return config.Level{
		ID:         customLevelID,
		Name:       "Custom",
		Dimension:  req.Dimension,
		Difficulty: req.MineCount,
	}, nil
}

// Start создает новую партию игрока. Предыдущая партия игрока отбрасывается целиком.
func (s *SessionService) Start(ctx context.Context, playerID string, req StartRequest) (*SessionInfo, error) {
	level, err := s.resolveLevel(req)
	if err != nil {
		return nil, err
	}

	var opts []game.Option
	if s.deps.NewRand != nil {
		opts = append(opts, game.WithRand(s.deps.NewRand()))
	}
	if s.deps.Layout != nil {
		opts = append(opts, game.WithMines(s.deps.Layout(level.Dimension, level.Difficulty)))
	}
	g, err := game.Start(level.Dimension, level.Difficulty, opts...)
	if err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		Level:     level,
		StartedAt: now,
		game:      g,
	}
	if s.cfg.MaxTime > 0 {
		sess.Deadline = now.Add(s.cfg.MaxTime)
	}

	// новая партия занимает слот игрока атомарно, прежняя бросается уже после
	s.mu.Lock()
	prevID := s.playerSessions[playerID]
	s.sessions[sess.ID] = sess
	s.playerSessions[playerID] = sess.ID
	active := len(s.sessions)
	s.mu.Unlock()

	// таймеры запускаются после регистрации, иначе expire не найдет сессию;
	// параллельный Start мог уже бросить эту партию
	if s.cfg.MaxTime > 0 {
		sess.mu.Lock()
		if sess.game.Status() == game.StatusActive {
			if s.cfg.LowTimeThreshold > 0 {
				sess.lowTimer = time.AfterFunc(s.cfg.MaxTime-s.cfg.LowTimeThreshold, func() { s.lowTime(sess.ID) })
			}
			sess.expireTimer = time.AfterFunc(s.cfg.MaxTime, func() { s.expire(sess.ID) })
		}
		sess.mu.Unlock()
	}

	if prevID != "" {
		if err := s.Abandon(ctx, playerID, prevID); err != nil && !errors.Is(err, ErrSessionNotFound) {
			logger.Warn("failed to abandon previous session", "error", err, "session_id", prevID)
		}
	}

	if m := s.deps.Metrics; m != nil {
		m.SessionsStarted.WithLabelValues(level.ID).Inc()
		m.ActiveSessions.Set(float64(active))
	}
	s.deps.Audit.LogGameStart(ctx, playerID, sess.ID, level.ID, level.Dimension, level.Difficulty)
	logger.Info("session started", "session_id", sess.ID, "player_id", playerID, "level", level.ID,
		"dimension", level.Dimension, "mines", level.Difficulty)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.infoLocked(sess), nil
}

func (s *SessionService) get(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) owned(playerID, sessionID string) (*Session, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.PlayerID != playerID {
		return nil, ErrForbidden
	}
	return sess, nil
}

func (s *SessionService) infoLocked(sess *Session) *SessionInfo {
	return &SessionInfo{
		SessionID:   sess.ID,
		LevelID:     sess.Level.ID,
		StartedAt:   sess.StartedAt,
		RemainingMs: sess.remaining(s.now()).Milliseconds(),
		Board:       sess.game.View(),
	}
}

// Click - ход игрока
func (s *SessionService) Click(ctx context.Context, playerID, sessionID string, x, y int) (game.ClickResult, error) {
	sess, err := s.owned(playerID, sessionID)
	if err != nil {
		return game.ClickResult{}, err
	}

	sess.mu.Lock()
	res, err := sess.game.HandleClick(x, y)
	if err != nil {
		sess.mu.Unlock()
		s.countClick("out_of_bounds")
		return game.ClickResult{}, err
	}
	var rec *domain.GameRecord
	if !res.NoOp && res.Transition.IsTerminal() {
		rec = s.finishLocked(sess, resultOf(res.Transition))
	}
	sess.mu.Unlock()

	switch {
	case res.NoOp:
		s.countClick("noop")
	case res.HitMine != nil:
		s.countClick("mine")
	default:
		s.countClick("reveal")
		if m := s.deps.Metrics; m != nil {
			m.CellsRevealed.Observe(float64(len(res.RevealedCells)))
		}
	}

	if !res.NoOp {
		s.publish(sessionID, Event{Type: EventClick, SessionID: sessionID, Status: res.Transition, Result: &res})
	}
	if rec != nil {
		s.publish(sessionID, Event{Type: EventFinished, SessionID: sessionID, Status: res.Transition})
		s.record(rec)
	}
	return res, nil
}

func resultOf(st game.Status) domain.GameResult {
	if st == game.StatusWon {
		return domain.GameResultWin
	}
	return domain.GameResultLose
}

// finishLocked фиксирует окончание партии; вызывается под sess.mu
func (s *SessionService) finishLocked(sess *Session, result domain.GameResult) *domain.GameRecord {
	sess.stopTimers()
	sess.FinishedAt = s.now()
	g := sess.game
	return &domain.GameRecord{
		SessionID:     sess.ID,
		PlayerID:      sess.PlayerID,
		LevelID:       sess.Level.ID,
		Dimension:     g.Dimension(),
		MineCount:     g.MineCount(),
		Result:        result,
		TurnCount:     g.TurnCount(),
		RevealedCount: g.RevealedCount(),
		Score:         int64(g.RevealedCount()) * int64(s.cfg.ScoreForBlock),
		DurationMs:    sess.FinishedAt.Sub(sess.StartedAt).Milliseconds(),
		StartedAt:     sess.StartedAt,
		FinishedAt:    sess.FinishedAt,
	}
}

func (s *SessionService) lowTime(sessionID string) {
	sess, err := s.get(sessionID)
	if err != nil {
		return
	}
	sess.mu.Lock()
	active := sess.game.Status() == game.StatusActive
	remaining := sess.remaining(s.now())
	sess.mu.Unlock()

	if active {
		s.publish(sessionID, Event{Type: EventLowTime, SessionID: sessionID, Status: game.StatusActive, RemainingMs: remaining.Milliseconds()})
	}
}

// expire - истекло время уровня: поражение через ту же машину состояний
func (s *SessionService) expire(sessionID string) {
	sess, err := s.get(sessionID)
	if err != nil {
		return
	}

	sess.mu.Lock()
	res := sess.game.Expire()
	if res.NoOp {
		sess.mu.Unlock()
		return
	}
	rec := s.finishLocked(sess, domain.GameResultTimeout)
	sess.mu.Unlock()

	logger.Info("session expired", "session_id", sessionID, "player_id", sess.PlayerID)
	s.publish(sessionID, Event{Type: EventExpired, SessionID: sessionID, Status: res.Transition, Result: &res})
	s.record(rec)
}

// Abandon - игрок бросил партию; активная партия записывается как брошенная
func (s *SessionService) Abandon(ctx context.Context, playerID, sessionID string) error {
	sess, err := s.owned(playerID, sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	res := sess.game.Expire()
	var rec *domain.GameRecord
	if !res.NoOp {
		rec = s.finishLocked(sess, domain.GameResultAbandon)
	}
	sess.stopTimers()
	sess.mu.Unlock()

	s.remove(sess)
	s.publish(sessionID, Event{Type: EventAbandoned, SessionID: sessionID, Status: sess.statusSafe()})
	if rec != nil {
		s.record(rec)
	}
	logger.WithContext(ctx).Info("session abandoned", "session_id", sessionID, "player_id", playerID)
	return nil
}

func (sess *Session) statusSafe() game.Status {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.Status()
}

func (s *SessionService) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	if s.playerSessions[sess.PlayerID] == sess.ID {
		delete(s.playerSessions, sess.PlayerID)
	}
	active := len(s.sessions)
	s.mu.Unlock()

	if m := s.deps.Metrics; m != nil {
		m.ActiveSessions.Set(float64(active))
	}
}

// Info возвращает снимок партии владельцу
func (s *SessionService) Info(playerID, sessionID string) (*SessionInfo, error) {
	sess, err := s.owned(playerID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.infoLocked(sess), nil
}

// CellState - состояние одной клетки без раскрытия закрытых боузеров
func (s *SessionService) CellState(playerID, sessionID string, x, y int) (game.CellState, error) {
	sess, err := s.owned(playerID, sessionID)
	if err != nil {
		return game.CellState{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.game.CellState(x, y)
}

// Authorize проверяет, что сессия существует и принадлежит игроку (подписка websocket)
func (s *SessionService) Authorize(playerID, sessionID string) error {
	_, err := s.owned(playerID, sessionID)
	return err
}

func (s *SessionService) publish(sessionID string, evt Event) {
	if s.deps.Publisher != nil {
		s.deps.Publisher.Publish(sessionID, evt)
	}
}

func (s *SessionService) countClick(outcome string) {
	if m := s.deps.Metrics; m != nil {
		m.Clicks.WithLabelValues(outcome).Inc()
	}
}

// record сохраняет результат асинхронно с таймаутом
func (s *SessionService) record(rec *domain.GameRecord) {
	if m := s.deps.Metrics; m != nil {
		m.SessionsFinished.WithLabelValues(rec.LevelID, string(rec.Result)).Inc()
	}
	logger.Info("session finished", "session_id", rec.SessionID, "player_id", rec.PlayerID,
		"result", rec.Result, "turns", rec.TurnCount, "revealed", rec.RevealedCount, "score", rec.Score)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.deps.Records != nil {
			if err := s.deps.Records.Create(ctx, rec); err != nil {
				logger.Error("failed to save game record", "error", err, "session_id", rec.SessionID)
			}
		}
		// произвольные поля несравнимы между собой, в таблицу лидеров не идут
		if rec.Result == domain.GameResultWin && rec.LevelID != customLevelID && s.deps.Leaderboard != nil {
			if err := s.deps.Leaderboard.Submit(ctx, rec.LevelID, rec.PlayerID, rec.DurationMs); err != nil {
				logger.Error("failed to submit leaderboard entry", "error", err, "session_id", rec.SessionID)
			}
		}
		s.deps.Audit.LogGameEnd(ctx, rec)
	}()
}

// History - последние партии игрока
func (s *SessionService) History(ctx context.Context, playerID string, limit int) ([]*domain.GameRecord, error) {
	if s.deps.Records == nil {
		return nil, ErrUnavailable
	}
	return s.deps.Records.GetByPlayerID(ctx, playerID, limit)
}

func (s *SessionService) Stats(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	if s.deps.Records == nil {
		return nil, ErrUnavailable
	}
	return s.deps.Records.GetPlayerStats(ctx, playerID)
}

// Leaderboard - лучшие победы уровня и место игрока
func (s *SessionService) Leaderboard(ctx context.Context, levelID, playerID string, limit int) ([]domain.LeaderboardEntry, int64, error) {
	if s.deps.Leaderboard == nil {
		return nil, 0, ErrUnavailable
	}
	if _, ok := s.cfg.Level(levelID); !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownLevel, levelID)
	}
	top, err := s.deps.Leaderboard.Top(ctx, levelID, limit)
	if err != nil {
		return nil, 0, err
	}
	rank, err := s.deps.Leaderboard.Rank(ctx, levelID, playerID)
	if err != nil {
		return nil, 0, err
	}
	return top, rank, nil
}

// RunCleanup удаляет завершенные и заброшенные партии, пока ctx не отменен
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SessionService) sweep() {
	now := s.now()
	s.mu.RLock()
	var stale []*Session
	for _, sess := range s.sessions {
		sess.mu.Lock()
		finished := !sess.FinishedAt.IsZero() && now.Sub(sess.FinishedAt) > time.Minute
		old := now.Sub(sess.StartedAt) > s.cfg.SessionTTL
		sess.mu.Unlock()
		if finished || old {
			stale = append(stale, sess)
		}
	}
	s.mu.RUnlock()

	for _, sess := range stale {
		sess.mu.Lock()
		res := sess.game.Expire()
		var rec *domain.GameRecord
		if !res.NoOp {
			rec = s.finishLocked(sess, domain.GameResultAbandon)
		}
		sess.stopTimers()
		sess.mu.Unlock()

		s.remove(sess)
		if rec != nil {
			s.record(rec)
		}
	}
	if len(stale) > 0 {
		logger.Debug("sessions swept", "count", len(stale))
	}
}

// Close останавливает таймеры и ждет записи результатов
func (s *SessionService) Close() {
	s.mu.RLock()
	for _, sess := range s.sessions {
		sess.mu.Lock()
		sess.stopTimers()
		sess.mu.Unlock()
	}
	s.mu.RUnlock()
	s.wg.Wait()
}
