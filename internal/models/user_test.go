package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_EnsureDefaults(t *testing.T) {
	u := &User{Login: "alice", Accounts: []string{}}
	u.EnsureDefaults()

	assert.NotNil(t, u.Operations)
	assert.NotNil(t, u.Goals)
	assert.NotNil(t, u.Budgets)
	assert.Equal(t, []string{DefaultAccount}, u.Accounts)

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"operations":[]`)
	assert.Contains(t, string(data), `"goals":[]`)
	assert.Contains(t, string(data), `"budgets":[]`)
}

func TestUser_EnsureDefaults_KeepsExisting(t *testing.T) {
	u := &User{
		Accounts: []string{"Cash"},
		Goals:    []json.RawMessage{json.RawMessage(`{"id":"g1"}`)},
	}
	u.EnsureDefaults()
	assert.Equal(t, []string{"Cash"}, u.Accounts)
	assert.Len(t, u.Goals, 1)
}

func TestUser_FindOperationAndView(t *testing.T) {
	u := NewUser("alice", "pw", Profile{Name: "Alice"})
	u.Operations = append(u.Operations, Operation{ID: "a"}, Operation{ID: "b"})

	assert.Equal(t, 1, u.FindOperation("b"))
	assert.Equal(t, -1, u.FindOperation("zzz"))
	assert.Equal(t, &UserView{Login: "alice", Profile: Profile{Name: "Alice"}}, u.View())
}

func TestOperation_Accounts(t *testing.T) {
	cash, card := "Cash", "Card"
	assert.Equal(t, []string{"Cash"}, Operation{Account: &cash}.Accounts())
	assert.Equal(t, []string{"Cash", "Card"}, Operation{AccountFrom: &cash, AccountTo: &card}.Accounts())
	assert.Empty(t, Operation{}.Accounts())
}

func TestUser_JSONKeepsExtra(t *testing.T) {
	doc := `{"login":"bob","password":"pw","theme":"dark",` +
		`"profile":{"name":"Bob","avatar":"bob.png","phone":79001234567},` +
		`"operations":[{"id":"x1","type":"income","amount":"12.5","account":null,"tags":["a"]},42],` +
		`"goals":"oops","accounts":["Cash",null]}`

	var u User
	require.NoError(t, json.Unmarshal([]byte(doc), &u))
	assert.Equal(t, "bob", u.Login)
	assert.Equal(t, "79001234567", u.Profile.Phone)
	assert.JSONEq(t, `"bob.png"`, string(u.Profile.Extra["avatar"]))
	require.Len(t, u.Operations, 1)
	assert.Equal(t, 12.5, u.Operations[0].Amount)
	assert.Nil(t, u.Operations[0].Account)
	assert.Nil(t, u.Goals)
	assert.Equal(t, []string{"Cash"}, u.Accounts)
	assert.JSONEq(t, `"dark"`, string(u.Extra["theme"]))

	data, err := json.Marshal(u)
	require.NoError(t, err)
	var back User
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, u, back)
	assert.Contains(t, string(data), `"theme":"dark"`)
	assert.Contains(t, string(data), `"tags":["a"]`)
}

func TestOperation_JSONWithoutExtra(t *testing.T) {
	cash := "Cash"
	op := Operation{ID: "a", Type: OperationExpense, Amount: 3, Account: &cash}

	data, err := json.Marshal(op)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","type":"expense","amount":3,"category":"","note":"","date":"",`+
		`"account":"Cash","accountFrom":null,"accountTo":null,"createdAt":"","updatedAt":""}`, string(data))

	var back Operation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, op, back)
}
