package ws

import (
	"sync"
)

// Event 推送给客户端的事件帧
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub 维护本节点的活跃客户端连接，按用户索引
// 同一用户允许多个连接（多端登录），事件发给该用户的所有连接
type Hub struct {
	// 注册的客户端
	clients map[*Client]bool

	// 用户对应的客户端集合 UserID -> Client -> bool
	users map[uint]map[*Client]bool

	// 互斥锁，保护 map 的并发读写
	mu sync.RWMutex

	// 注册请求通道
	register chan *Client

	// 注销请求通道
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		users:      make(map[uint]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if _, ok := h.users[client.userID]; !ok {
				h.users[client.userID] = make(map[*Client]bool)
			}
			h.users[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				if conns, ok := h.users[client.userID]; ok {
					delete(conns, client)
					if len(conns) == 0 {
						delete(h.users, client.userID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send 向指定用户的所有本地连接投递事件
// 返回是否至少有一个连接收到；false 表示该用户不在本节点在线
func (h *Hub) Send(userID uint, event string, payload any) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.users[userID]
	if !ok || len(conns) == 0 {
		return false
	}

	delivered := false
	msg := &Event{Event: event, Payload: payload}
	for client := range conns {
		select {
		case client.send <- msg:
			delivered = true
		default:
			// 发送缓冲区满，丢弃本条；连接清理交给 readPump 的 unregister
		}
	}
	return delivered
}

// Online 判断用户在本节点是否有活跃连接
func (h *Hub) Online(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.users[userID]
	return ok && len(conns) > 0
}
