package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrNoData is returned by Decode when the envelope carries no payload.
var ErrNoData = errors.New("response has no data")

// Envelope единый вид ответа любого эндпоинта.
type Envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Normalize приводит произвольный ответ сервера к Envelope:
// булев success отдаётся как есть, иначе ключ data оборачивается в {success:true, data},
// иначе весь ответ считается данными.
func Normalize(body []byte) *Envelope {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return &Envelope{Success: true}
	}
	if !gjson.ValidBytes(body) {
		// не-JSON ответ (например, текст от прокси) считаем строковыми данными
		raw, _ := json.Marshal(string(body))
		return &Envelope{Success: true, Data: raw}
	}

	root := gjson.ParseBytes(body)
	if root.IsObject() {
		success := root.Get("success")
		if success.Type == gjson.True || success.Type == gjson.False {
			return &Envelope{
				Success: success.Bool(),
				Data:    rawOf(root.Get("data")),
				Message: root.Get("message").String(),
				Errors:  fieldErrors(root.Get("errors")),
			}
		}
		if data := root.Get("data"); data.Exists() {
			return &Envelope{
				Success: true,
				Data:    rawOf(data),
				Message: root.Get("message").String(),
				Errors:  fieldErrors(root.Get("errors")),
			}
		}
	}
	return &Envelope{Success: true, Data: json.RawMessage(body)}
}

func rawOf(r gjson.Result) json.RawMessage {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(r.Raw)
}

// fieldErrors accepts {field: [msg...]} as well as {field: msg}.
func fieldErrors(r gjson.Result) map[string][]string {
	if !r.IsObject() {
		return nil
	}
	out := map[string][]string{}
	r.ForEach(func(key, value gjson.Result) bool {
		if value.IsArray() {
			for _, m := range value.Array() {
				out[key.String()] = append(out[key.String()], m.String())
			}
		} else {
			out[key.String()] = append(out[key.String()], value.String())
		}
		return true
	})
	if len(out) == 0 {
		return nil
	}
	return out
}

// Decode unmarshals the envelope payload into T.
func Decode[T any](env *Envelope) (T, error) {
	var out T
	if env == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return out, ErrNoData
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}

// Raw returns a gjson view of the payload, for callers probing loosely shaped data.
func (e *Envelope) Raw() gjson.Result {
	if e == nil || len(e.Data) == 0 {
		return gjson.Result{}
	}
	return gjson.ParseBytes(e.Data)
}
