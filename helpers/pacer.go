package helpers

import (
	"context"
	"sync"
	"time"
)

type scope struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Pacer управляет косметическими паузами между поэтапными сообщениями
// мастера и даёт каждому чату отменяемый контекст. Контекст чата
// отменяется при перезапуске диалога или выходе, поэтому ни отложенное
// сообщение, ни запоздавший ответ бэкенда не попадают в уже сброшенный
// диалог. Паузы не несут смысловой нагрузки: порядок сообщений
// сохраняется и при нулевой задержке.
type Pacer struct {
	delay time.Duration

	mu     sync.Mutex
	active map[int64]scope
}

// NewPacer создаёт Pacer с заданной паузой между сообщениями.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{
		delay:  delay,
		active: make(map[int64]scope),
	}
}

// Begin открывает новую область диалога для чата, отменяя предыдущую.
// Возвращённый контекст передаётся и в паузы, и в запросы к бэкенду.
func (p *Pacer) Begin(chatID int64) context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.active[chatID]; ok {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.active[chatID] = scope{ctx: ctx, cancel: cancel}
	return ctx
}

// Current возвращает контекст текущей области чата, открывая её при
// первом обращении.
func (p *Pacer) Current(chatID int64) context.Context {
	p.mu.Lock()
	s, ok := p.active[chatID]
	p.mu.Unlock()
	if ok {
		return s.ctx
	}
	return p.Begin(chatID)
}

// Cancel закрывает область чата: все паузы и запросы в ней обрываются.
func (p *Pacer) Cancel(chatID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.active[chatID]; ok {
		s.cancel()
		delete(p.active, chatID)
	}
}

// Wait выдерживает косметическую паузу. Возвращает false, если область
// чата была отменена — тогда сообщение отправлять уже не нужно.
func (p *Pacer) Wait(ctx context.Context) bool {
	if p.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
