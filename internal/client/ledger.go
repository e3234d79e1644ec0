package client

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/moneylens/internal/models"
)

// OtherCategory — ключ для расходов без категории.
const OtherCategory = "Другое"

// Snapshot — копия данных Ledger, которую получают подписчики.
type Snapshot struct {
	Operations []models.Operation
	Accounts   []string
	LastSync   time.Time
}

// Totals — суммы доходов и расходов.
type Totals struct {
	Income  float64
	Expense float64
}

// AccountSummary — сводка по счету. Change — доля чистого притока в процентах.
type AccountSummary struct {
	Name    string
	Balance float64
	Inflow  float64
	Outflow float64
	Change  int
}

// CategoryTotal — сумма расходов по категории.
type CategoryTotal struct {
	Name  string
	Value float64
}

// Ledger хранит операции и счета одного пользователя на стороне клиента и
// синхронизирует изменения с сервером.
type Ledger struct {
	api   *Client
	login string

	mu         sync.Mutex
	operations []models.Operation
	accounts   []string
	lastSync   time.Time

	subMu     sync.Mutex
	nextSubID int
	listeners map[int]func(Snapshot)
}

func NewLedger(api *Client, login string) *Ledger {
	return &Ledger{
		api:       api,
		login:     login,
		accounts:  []string{models.DefaultAccount},
		listeners: map[int]func(Snapshot){},
	}
}

// Subscribe регистрирует слушателя изменений и возвращает функцию отписки.
func (l *Ledger) Subscribe(fn func(Snapshot)) func() {
	l.subMu.Lock()
	id := l.nextSubID
	l.nextSubID++
	l.listeners[id] = fn
	l.subMu.Unlock()

	return func() {
		l.subMu.Lock()
		delete(l.listeners, id)
		l.subMu.Unlock()
	}
}

// Snapshot возвращает копию текущих данных.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Ledger) snapshotLocked() Snapshot {
	return Snapshot{
		Operations: slices.Clone(l.operations),
		Accounts:   slices.Clone(l.accounts),
		LastSync:   l.lastSync,
	}
}

func (l *Ledger) notify() {
	snap := l.Snapshot()

	l.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Load загружает счета и операции. Ошибка чтения состояния не фатальна:
// счета сбрасываются к значению по умолчанию.
func (l *Ledger) Load(ctx context.Context) error {
	accounts := []string{models.DefaultAccount}
	if state, err := l.api.GetState(ctx, l.login); err == nil && len(state.Accounts) > 0 {
		accounts = state.Accounts
	}
	l.mu.Lock()
	l.accounts = accounts
	l.mu.Unlock()

	operations, err := l.api.ListOperations(ctx, l.login)
	if err != nil {
		l.notify()
		return err
	}
	if operations == nil {
		operations = []models.Operation{}
	}
	l.mu.Lock()
	l.operations = operations
	l.lastSync = time.Now()
	l.mu.Unlock()

	l.notify()
	return nil
}

// Clear сбрасывает данные к начальному состоянию.
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.operations = nil
	l.accounts = []string{models.DefaultAccount}
	l.lastSync = time.Time{}
	l.mu.Unlock()
	l.notify()
}

// AddOperation создает операцию на сервере и добавляет ее в конец списка.
func (l *Ledger) AddOperation(ctx context.Context, payload models.OperationPayload) (*models.Operation, error) {
	created, err := l.api.CreateOperation(ctx, l.login, payload)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.operations = append(l.operations, *created)
	l.mu.Unlock()

	l.rememberAccounts(ctx, created.Accounts())
	l.notify()
	return created, nil
}

// UpdateOperation изменяет операцию на сервере и заменяет ее в списке.
func (l *Ledger) UpdateOperation(ctx context.Context, id string, payload models.OperationPayload) (*models.Operation, error) {
	updated, err := l.api.UpdateOperation(ctx, l.login, id, payload)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	for i := range l.operations {
		if l.operations[i].ID == id {
			l.operations[i] = *updated
		}
	}
	l.mu.Unlock()

	l.rememberAccounts(ctx, updated.Accounts())
	l.notify()
	return updated, nil
}

// DeleteOperation удаляет операцию на сервере и из списка.
func (l *Ledger) DeleteOperation(ctx context.Context, id string) error {
	if err := l.api.DeleteOperation(ctx, l.login, id); err != nil {
		return err
	}

	l.mu.Lock()
	l.operations = slices.DeleteFunc(l.operations, func(o models.Operation) bool { return o.ID == id })
	l.mu.Unlock()

	l.notify()
	return nil
}

// AddAccount добавляет счет, если его еще нет, и сохраняет список на сервере.
func (l *Ledger) AddAccount(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	l.mu.Lock()
	if slices.Contains(l.accounts, name) {
		l.mu.Unlock()
		return nil
	}
	l.accounts = append(l.accounts, name)
	l.mu.Unlock()

	l.notify()
	return l.saveAccounts(ctx)
}

// RemoveAccount убирает счет из списка. Операции по нему остаются.
func (l *Ledger) RemoveAccount(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	l.mu.Lock()
	l.accounts = slices.DeleteFunc(l.accounts, func(a string) bool { return a == name })
	l.mu.Unlock()

	l.notify()
	return l.saveAccounts(ctx)
}

// DeleteAccount удаляет все операции по счету, затем сам счет.
func (l *Ledger) DeleteAccount(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	l.mu.Lock()
	var related []string
	for _, o := range l.operations {
		if slices.Contains(o.Accounts(), name) {
			related = append(related, o.ID)
		}
	}
	l.mu.Unlock()

	for _, id := range related {
		if err := l.DeleteOperation(ctx, id); err != nil {
			return err
		}
	}
	return l.RemoveAccount(ctx, name)
}

// rememberAccounts добавляет новые имена счетов. Ошибка сохранения списка
// не отменяет уже выполненную операцию.
func (l *Ledger) rememberAccounts(ctx context.Context, names []string) {
	for _, name := range names {
		_ = l.AddAccount(ctx, name)
	}
}

func (l *Ledger) saveAccounts(ctx context.Context) error {
	l.mu.Lock()
	accounts := slices.Clone(l.accounts)
	l.mu.Unlock()
	if accounts == nil {
		accounts = []string{}
	}
	return l.api.UpdateState(ctx, l.login, StateUpdate{Accounts: accounts})
}

// Sorted возвращает операции от новых к старым.
func (l *Ledger) Sorted() []models.Operation {
	ops := l.Snapshot().Operations
	slices.SortStableFunc(ops, func(a, b models.Operation) int {
		return parseDate(b.Date).Compare(parseDate(a.Date))
	})
	return ops
}

// Recent возвращает n последних операций.
func (l *Ledger) Recent(n int) []models.Operation {
	ops := l.Sorted()
	if n < len(ops) {
		ops = ops[:max(n, 0)]
	}
	return ops
}

func (l *Ledger) Totals() Totals {
	var t Totals
	for _, o := range l.Snapshot().Operations {
		switch o.Type {
		case models.OperationIncome:
			t.Income += o.Amount
		case models.OperationExpense:
			t.Expense += o.Amount
		}
	}
	return t
}

// Accounts считает балансы по всем известным счетам и счетам из операций,
// от большего баланса к меньшему.
func (l *Ledger) Accounts() []AccountSummary {
	snap := l.Snapshot()

	var order []string
	byName := map[string]*AccountSummary{}
	upsert := func(name *string) *AccountSummary {
		if name == nil || *name == "" {
			return nil
		}
		if acc, ok := byName[*name]; ok {
			return acc
		}
		acc := &AccountSummary{Name: *name}
		byName[*name] = acc
		order = append(order, *name)
		return acc
	}
	for i := range snap.Accounts {
		upsert(&snap.Accounts[i])
	}

	for _, o := range snap.Operations {
		switch o.Type {
		case models.OperationIncome:
			if acc := upsert(o.Account); acc != nil {
				acc.Balance += o.Amount
				acc.Inflow += o.Amount
			}
		case models.OperationExpense:
			if acc := upsert(o.Account); acc != nil {
				acc.Balance -= o.Amount
				acc.Outflow += o.Amount
			}
		case models.OperationTransfer:
			if from := upsert(o.AccountFrom); from != nil {
				from.Balance -= o.Amount
				from.Outflow += o.Amount
			}
			if to := upsert(o.AccountTo); to != nil {
				to.Balance += o.Amount
				to.Inflow += o.Amount
			}
		}
	}

	out := make([]AccountSummary, 0, len(order))
	for _, name := range order {
		acc := *byName[name]
		if turnover := acc.Inflow + acc.Outflow; turnover != 0 {
			acc.Change = int(math.Floor((acc.Inflow-acc.Outflow)/turnover*100 + 0.5))
		}
		out = append(out, acc)
	}
	slices.SortStableFunc(out, func(a, b AccountSummary) int {
		switch {
		case a.Balance > b.Balance:
			return -1
		case a.Balance < b.Balance:
			return 1
		}
		return 0
	})
	return out
}

func (l *Ledger) TotalBalance() float64 {
	var sum float64
	for _, acc := range l.Accounts() {
		sum += acc.Balance
	}
	return sum
}

// CategoryTotals суммирует расходы по категориям, от большей суммы к меньшей.
func (l *Ledger) CategoryTotals() []CategoryTotal {
	var out []CategoryTotal
	index := map[string]int{}
	for _, o := range l.Snapshot().Operations {
		if o.Type != models.OperationExpense {
			continue
		}
		key := o.Category
		if key == "" {
			key = OtherCategory
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, CategoryTotal{Name: key})
		}
		out[i].Value += o.Amount
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
	return out
}

// parseDate разбирает дату операции. Неразборчивая дата считается нулевой.
func parseDate(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
