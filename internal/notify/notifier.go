package notify

import (
	"fmt"

	"go.uber.org/zap"

	logger "github.com/Gopher0727/LinkUp/middleware/log"
)

// LocalSender 本节点的实时连接（WebSocket Hub）
type LocalSender interface {
	Send(userID uint, event string, payload any) bool
}

// Producer 跨节点投递通道（Kafka 生产者）
type Producer interface {
	SendMessage(key string, message any) error
}

// Pool 异步执行任务的协程池
type Pool interface {
	Submit(job func())
}

// Engine 通知扇出引擎
// 权威写入提交后调用，投递是尽力而为：先试本地连接，
// 不在本节点就经 Kafka 转发；哪里都不在线就静默丢弃。
// 任何投递失败只记日志，绝不回传给业务调用方。
type Engine struct {
	local    LocalSender
	producer Producer
	pool     Pool
	logger   *logger.Logger
}

func NewEngine(local LocalSender, producer Producer, pool Pool, log *logger.Logger) *Engine {
	return &Engine{
		local:    local,
		producer: producer,
		pool:     pool,
		logger:   log,
	}
}

// Notify 向单个用户投递事件
func (e *Engine) Notify(userID uint, event string, payload any) {
	e.pool.Submit(func() {
		e.deliver(userID, event, payload)
	})
}

// NotifyMany 向多个用户投递同一事件
func (e *Engine) NotifyMany(userIDs []uint, event string, payload any) {
	targets := make([]uint, len(userIDs))
	copy(targets, userIDs)
	e.pool.Submit(func() {
		for _, id := range targets {
			e.deliver(id, event, payload)
		}
	})
}

func (e *Engine) deliver(userID uint, event string, payload any) {
	if e.local != nil && e.local.Send(userID, event, payload) {
		return
	}

	if e.producer == nil {
		// 单节点部署且用户不在线，直接丢弃
		e.logger.Debug("notification dropped, user offline",
			zap.Uint("user_id", userID),
			zap.String("event", event))
		return
	}

	env := Envelope{UserID: userID, Event: event, Payload: payload}
	if err := e.producer.SendMessage(fmt.Sprintf("%d", userID), env); err != nil {
		e.logger.Warn("failed to forward notification",
			zap.Uint("user_id", userID),
			zap.String("event", event),
			zap.Error(err))
	}
}
