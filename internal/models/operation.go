package models

import "encoding/json"

// Типы операций.
const (
	OperationIncome   = "income"
	OperationExpense  = "expense"
	OperationTransfer = "transfer"
)

// DefaultCategory подставляется, если категория не указана.
const DefaultCategory = "Uncategorized"

// Operation — одна финансовая операция пользователя.
//
// Для income/expense заполнено Account, для transfer — AccountFrom и AccountTo.
// Даты хранятся строками ISO-8601 в том виде, в котором были записаны.
type Operation struct {
	ID          string  `json:"id"`
	Type        string  `json:"type" validate:"oneof=income expense transfer"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category"`
	Note        string  `json:"note"`
	Date        string  `json:"date"`
	Account     *string `json:"account"`
	AccountFrom *string `json:"accountFrom"`
	AccountTo   *string `json:"accountTo"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`

	Extra Extra `json:"-"`
}

type operationJSON Operation

// MarshalJSON добавляет к известным полям сохраненные неизвестные.
func (o Operation) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(operationJSON(o))
	if err != nil {
		return nil, err
	}
	return withExtra(data, o.Extra)
}

// UnmarshalJSON читает операцию из файла. Сумма может быть записана строкой,
// неизвестные поля попадают в Extra.
func (o *Operation) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*o = Operation{
		ID:          takeText(fields, "id"),
		Type:        takeText(fields, "type"),
		Amount:      takeNumber(fields, "amount"),
		Category:    takeText(fields, "category"),
		Note:        takeText(fields, "note"),
		Date:        takeText(fields, "date"),
		Account:     takeOptionalText(fields, "account"),
		AccountFrom: takeOptionalText(fields, "accountFrom"),
		AccountTo:   takeOptionalText(fields, "accountTo"),
		CreatedAt:   takeText(fields, "createdAt"),
		UpdatedAt:   takeText(fields, "updatedAt"),
	}
	o.Extra = rest(fields)
	return nil
}

// Accounts возвращает имена всех счетов, затронутых операцией.
func (o Operation) Accounts() []string {
	var names []string
	for _, p := range []*string{o.Account, o.AccountFrom, o.AccountTo} {
		if p != nil && *p != "" {
			names = append(names, *p)
		}
	}
	return names
}

// OperationPayload — тело запроса на создание или изменение операции.
//
// Поля нетипизированы: клиенты присылают сумму и строкой, и числом,
// приведение выполняет валидатор операций.
type OperationPayload struct {
	ID          any `json:"id"`
	Type        any `json:"type"`
	Amount      any `json:"amount"`
	Category    any `json:"category"`
	Note        any `json:"note"`
	Date        any `json:"date"`
	Account     any `json:"account"`
	AccountFrom any `json:"accountFrom"`
	AccountTo   any `json:"accountTo"`
}
