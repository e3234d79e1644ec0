// Package models содержит доменные структуры MoneyLens: запись пользователя,
// профиль, финансовые операции и агрегированное состояние (цели, бюджеты, счета).
//
// Запись пользователя хранится целиком в одном JSON-документе, поэтому теги
// json здесь одновременно описывают и формат файла, и формат ответов API.
package models

import "encoding/json"

// DefaultAccount — счет, который есть у пользователя всегда, когда список счетов пуст.
const DefaultAccount = "Общий счет"

// Profile — контактные данные пользователя. Отсутствующие поля равны пустой строке.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	Extra Extra `json:"-"`
}

type profileJSON Profile

func (p Profile) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(profileJSON(p))
	if err != nil {
		return nil, err
	}
	return withExtra(data, p.Extra)
}

func (p *Profile) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*p = Profile{
		Name:  takeText(fields, "name"),
		Email: takeText(fields, "email"),
		Phone: takeText(fields, "phone"),
	}
	p.Extra = rest(fields)
	return nil
}

// User — полная запись пользователя, один файл на логин.
type User struct {
	Login      string            `json:"login"`
	Password   string            `json:"password"`
	Profile    Profile           `json:"profile"`
	Operations []Operation       `json:"operations"`
	Goals      []json.RawMessage `json:"goals"`
	Budgets    []json.RawMessage `json:"budgets"`
	Accounts   []string          `json:"accounts"`

	Extra Extra `json:"-"`
}

type userJSON User

// MarshalJSON записывает документ пользователя вместе с полями из Extra.
func (u User) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(userJSON(u))
	if err != nil {
		return nil, err
	}
	return withExtra(data, u.Extra)
}

// UnmarshalJSON разбирает документ пользователя, записанный любой версией
// приложения или вручную. Поля неподходящего вида пропускаются, их заменят
// значения по умолчанию; неизвестные поля попадают в Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*u = User{
		Login:    takeText(fields, "login"),
		Password: takeText(fields, "password"),
	}

	if raw := takeRaw(fields, "profile"); isJSONKind(raw, '{') {
		if err := json.Unmarshal(raw, &u.Profile); err != nil {
			return err
		}
	}
	if raw := takeRaw(fields, "operations"); isJSONKind(raw, '[') {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		for _, item := range items {
			if !isJSONKind(item, '{') {
				continue
			}
			var op Operation
			if err := json.Unmarshal(item, &op); err != nil {
				return err
			}
			u.Operations = append(u.Operations, op)
		}
	}
	if raw := takeRaw(fields, "goals"); isJSONKind(raw, '[') {
		if err := json.Unmarshal(raw, &u.Goals); err != nil {
			return err
		}
	}
	if raw := takeRaw(fields, "budgets"); isJSONKind(raw, '[') {
		if err := json.Unmarshal(raw, &u.Budgets); err != nil {
			return err
		}
	}
	if raw := takeRaw(fields, "accounts"); isJSONKind(raw, '[') {
		var items []any
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		for _, item := range items {
			if name, ok := item.(string); ok {
				u.Accounts = append(u.Accounts, name)
			}
		}
	}

	u.Extra = rest(fields)
	return nil
}

// NewUser создает запись нового пользователя со всеми полями по умолчанию.
func NewUser(login, password string, profile Profile) *User {
	u := &User{
		Login:    login,
		Password: password,
		Profile:  profile,
	}
	u.EnsureDefaults()
	return u
}

// EnsureDefaults заполняет отсутствующие списки, чтобы остальной код мог
// рассчитывать на их наличие. Пустой список счетов заменяется на DefaultAccount.
func (u *User) EnsureDefaults() {
	if u.Operations == nil {
		u.Operations = []Operation{}
	}
	if u.Goals == nil {
		u.Goals = []json.RawMessage{}
	}
	if u.Budgets == nil {
		u.Budgets = []json.RawMessage{}
	}
	if len(u.Accounts) == 0 {
		u.Accounts = []string{DefaultAccount}
	}
}

// View возвращает публичное представление пользователя без пароля.
func (u *User) View() *UserView {
	return &UserView{Login: u.Login, Profile: u.Profile}
}

// FindOperation возвращает индекс операции с заданным id или -1.
func (u *User) FindOperation(id string) int {
	for i := range u.Operations {
		if u.Operations[i].ID == id {
			return i
		}
	}
	return -1
}

// UserView — то, что API отдает о пользователе.
type UserView struct {
	Login   string  `json:"login"`
	Profile Profile `json:"profile"`
}

// State — цели, бюджеты и счета пользователя. Цели и бюджеты сервер не
// интерпретирует и хранит как есть.
type State struct {
	Goals    []json.RawMessage `json:"goals"`
	Budgets  []json.RawMessage `json:"budgets"`
	Accounts []string          `json:"accounts"`
}
