package models

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Extra — поля документа, которые модель не описывает. Они читаются из
// файла как есть и записываются обратно без изменений.
type Extra map[string]json.RawMessage

// objectFields разбирает JSON-объект на поля. Для null возвращает пустую карту.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// rest возвращает оставшиеся поля или nil, если их нет.
func rest(fields map[string]json.RawMessage) Extra {
	if len(fields) == 0 {
		return nil
	}
	return Extra(fields)
}

// take извлекает поле из карты. Извлеченное поле в Extra не попадает.
func take(fields map[string]json.RawMessage, key string) (any, bool) {
	raw, ok := fields[key]
	delete(fields, key)
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return v, true
}

// takeText приводит скалярное поле к строке. null, объекты и массивы дают "".
func takeText(fields map[string]json.RawMessage, key string) string {
	v, _ := take(fields, key)
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// takeOptionalText — как takeText, но отсутствующее поле и null дают nil.
func takeOptionalText(fields map[string]json.RawMessage, key string) *string {
	v, ok := take(fields, key)
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	}
	return &s
}

// takeNumber читает число. Строка с числом тоже подходит, остальное дает 0.
func takeNumber(fields map[string]json.RawMessage, key string) float64 {
	v, _ := take(fields, key)
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

// takeRaw возвращает поле без разбора.
func takeRaw(fields map[string]json.RawMessage, key string) json.RawMessage {
	raw := fields[key]
	delete(fields, key)
	return raw
}

func isJSONKind(raw json.RawMessage, open byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == open
}

// withExtra дописывает поля extra в конец закодированного объекта.
func withExtra(object []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return object, nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := append([]byte(nil), object[:len(object)-1]...)
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		if len(out) > 1 {
			out = append(out, ',')
		}
		out = append(out, name...)
		out = append(out, ':')
		out = append(out, extra[k]...)
	}
	return append(out, '}'), nil
}
