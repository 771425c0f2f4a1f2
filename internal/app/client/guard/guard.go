// Package guard не дает запустить одну и ту же изменяющую операцию
// над одной сущностью, пока предыдущая не завершилась.
package guard

import (
	"errors"
	"fmt"
	"sync"
)

var ErrOperationInProgress = errors.New("operation already in progress")

// Op — вид изменяющей операции.
type Op string

const (
	OpDelete  Op = "delete"
	OpUpdate  Op = "update"
	OpArchive Op = "archive"
	OpRestore Op = "restore"
)

type key struct {
	op Op
	id string
}

// Guard хранит пары (операция, сущность), выполняющиеся прямо сейчас.
// Повторный запуск отклоняется, а не ставится в очередь.
type Guard struct {
	mu       sync.Mutex
	seq      uint64
	inflight map[key]uint64
}

func New() *Guard {
	return &Guard{inflight: make(map[key]uint64)}
}

// Begin регистрирует операцию или возвращает ErrOperationInProgress.
func (g *Guard) Begin(op Op, id string) error {
	_, err := g.begin(op, id)
	return err
}

func (g *Guard) begin(op Op, id string) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key{op, id}
	if _, busy := g.inflight[k]; busy {
		return 0, fmt.Errorf("%s %s: %w", op, id, ErrOperationInProgress)
	}
	g.seq++
	g.inflight[k] = g.seq
	return g.seq, nil
}

// End снимает регистрацию. Повторный вызов безопасен.
func (g *Guard) End(op Op, id string) {
	g.mu.Lock()
	delete(g.inflight, key{op, id})
	g.mu.Unlock()
}

// Acquire — Begin, возвращающий функцию освобождения для defer.
// Освобождение после Clear не трогает регистрацию, сделанную позже.
func (g *Guard) Acquire(op Op, id string) (release func(), err error) {
	token, err := g.begin(op, id)
	if err != nil {
		return func() {}, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			k := key{op, id}
			if g.inflight[k] == token {
				delete(g.inflight, k)
			}
			g.mu.Unlock()
		})
	}, nil
}

// InFlight сообщает, выполняется ли операция сейчас.
func (g *Guard) InFlight(op Op, id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inflight[key{op, id}]
	return busy
}

// Len возвращает число незавершенных операций.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}

// Clear снимает все регистрации; вызывается при завершении сессии.
func (g *Guard) Clear() {
	g.mu.Lock()
	g.inflight = make(map[key]uint64)
	g.mu.Unlock()
}
