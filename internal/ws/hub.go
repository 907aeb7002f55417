package ws

import (
	"encoding/json"
	"sync"

	"bowser_blocks/internal/logger"
	"bowser_blocks/internal/service"
)

// Hub рассылает события партий подписанным клиентам.
// Подписка идет по id сессии: у одной партии может быть несколько вкладок.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{} // sessionID -> клиенты
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.SessionID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.SessionID] = room
	}
	room[c] = struct{}{}
	logger.Debug("ws client registered", "session_id", c.SessionID, "player_id", c.PlayerID, "clients", len(room))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.SessionID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.Send)
	if len(room) == 0 {
		delete(h.rooms, c.SessionID)
	}
	logger.Debug("ws client unregistered", "session_id", c.SessionID, "player_id", c.PlayerID)
}

// Publish реализует service.Publisher
func (h *Hub) Publish(sessionID string, evt service.Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		logger.Error("failed to marshal ws event", "error", err, "type", evt.Type)
		return
	}
	h.broadcast(sessionID, msg)
}

func (h *Hub) broadcast(sessionID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[sessionID] {
		// неблокирующая отправка: медленный клиент пропускает событие
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws send buffer full, dropping event", "session_id", sessionID, "player_id", c.PlayerID)
		}
	}
}

// Clients - число подписчиков партии
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}
