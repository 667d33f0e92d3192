package engine

import (
	"context"

	"github.com/xiebiao/libconsole/internal/domain/loan"
	"github.com/xiebiao/libconsole/pkg/metrics"
)

// 借阅事件类型，同时也是消息的routing key
const (
	EventLoanBorrowed = "loan.borrowed"
	EventLoanReturned = "loan.returned"
)

// LoanEvent 借还完成后发布的事件
type LoanEvent struct {
	Type       string        `json:"type"`
	LoanID     string        `json:"loanId"`
	LoanNo     string        `json:"loanNo"`
	UserID     string        `json:"userId"`
	CopyID     string        `json:"copyId"`
	DueAt      loan.DateTime `json:"dueAt"`
	OccurredAt loan.DateTime `json:"occurredAt"`
}

func newLoanEvent(eventType string, l *loan.Loan, at loan.DateTime) LoanEvent {
	return LoanEvent{
		Type:       eventType,
		LoanID:     l.ID,
		LoanNo:     l.LoanNo,
		UserID:     l.UserID,
		CopyID:     l.CopyID,
		DueAt:      l.DueAt,
		OccurredAt: at,
	}
}

// EventPublisher 借阅事件的出口
type EventPublisher interface {
	PublishLoanEvent(ctx context.Context, evt LoanEvent) error
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

// PublishLoanEvent 实现EventPublisher
func (NopPublisher) PublishLoanEvent(context.Context, LoanEvent) error { return nil }

// MessagePublisher 消息队列发布者（mq.Publisher满足此接口）
type MessagePublisher interface {
	Exchange() string
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// MQPublisher 把借阅事件发布到消息队列
type MQPublisher struct {
	pub     MessagePublisher
	metrics *metrics.Metrics
}

// NewMQPublisher 创建消息队列事件发布者
func NewMQPublisher(pub MessagePublisher, m *metrics.Metrics) *MQPublisher {
	return &MQPublisher{pub: pub, metrics: m}
}

// PublishLoanEvent 实现EventPublisher
func (p *MQPublisher) PublishLoanEvent(ctx context.Context, evt LoanEvent) error {
	err := p.pub.Publish(ctx, evt.Type, evt)
	p.metrics.IncPublished(p.pub.Exchange(), evt.Type, err)
	return err
}
