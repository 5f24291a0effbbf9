package validation

import "fmt"

// Errors はフィールド→メッセージのバリデーションエラーマップ。
// フィールドの出現順を保持し、Messageの決定性を保証する。
type Errors struct {
	order  []string
	fields map[string][]string
	count  int
}

func newErrors() *Errors {
	return &Errors{fields: make(map[string][]string)}
}

// NewFieldErrors は単一フィールドのエラーマップを生成する。
// ルール評価を経ずに検出された違反（書き込み時の一意制約違反など）を
// 同じレスポンス形式で返すために使用する。
func NewFieldErrors(field string, messages ...string) *Errors {
	errs := newErrors()
	for _, m := range messages {
		errs.add(field, m)
	}
	return errs
}

func (e *Errors) add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], message)
	e.count++
}

// Any はエラーが1件以上あるかを返す。
func (e *Errors) Any() bool {
	return e.count > 0
}

// Fields はフィールド→メッセージのマップを返す。レスポンスの
// errorsオブジェクトとしてそのままシリアライズできる。
func (e *Errors) Fields() map[string][]string {
	return e.fields
}

// Message はレスポンスのmessageフィールド用の要約文字列を返す。
// 最初の違反メッセージに、残り件数を" (and N more errors)"形式で付加する。
func (e *Errors) Message() string {
	if !e.Any() {
		return ""
	}

	first := e.fields[e.order[0]][0]
	rest := e.count - 1
	switch {
	case rest == 0:
		return first
	case rest == 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}
