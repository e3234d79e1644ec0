// Package keylock предоставляет взаимоисключение по строковому ключу.
//
// Используется хранилищем, чтобы цикл "прочитать - изменить - записать"
// для одного пользователя не перемежался с другим запросом к тому же файлу.
// Запросы к разным пользователям друг друга не блокируют.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Locker хранит мьютекс на каждый ключ, пока он кому-то нужен.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

// New создает пустой Locker.
func New() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock захватывает блокировку для key и возвращает функцию освобождения.
// Повторный вызов функции освобождения ничего не делает.
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.locks, key)
			}
			l.mu.Unlock()
		})
	}
}

// size возвращает количество ключей, для которых сейчас есть держатели или ожидающие.
func (l *Locker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
