// Package validation は宣言的なリクエストバリデーションを提供する。
//
// エンドポイントごとにフィールド→制約のルール表を定義し、
// 一様に評価してフィールド→メッセージのエラーマップを生成する。
// メッセージ文字列はAPI契約の一部であり変更しないこと。
package validation

import (
	"context"
	"fmt"
	"net/mail"
)

// UniqueFunc は値が既に使用済みかどうかを返す一意性チェック関数。
// 使用済みの場合にtrueを返す。
type UniqueFunc func(ctx context.Context, value string) (bool, error)

// Rule は1フィールドに対する制約の宣言。
// 制約は Required → Email → MinLen → ConfirmedBy → Unique の順に評価され、
// 最初に違反した制約のメッセージのみを記録する
// （空値でフォーマット検査が重複して失敗するのを防ぐ）。
type Rule struct {
	// Field は検証対象のフィールド名。
	Field string

	// Required は空値を許可しない。
	Required bool

	// Email はメールアドレス形式を要求する。
	Email bool

	// MinLen は最小文字数。0の場合はチェックしない。
	MinLen int

	// ConfirmedBy が指定された場合、そのフィールドの値と一致しなければならない。
	ConfirmedBy string

	// Unique が指定された場合、値が未使用であることを要求する。
	Unique UniqueFunc
}

// Validator はルール表に基づくリクエストバリデータ。
type Validator struct {
	rules []Rule
}

// New はルール表からValidatorを生成する。
func New(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate はルール表を評価し、違反のエラーマップを返す。
// 一意性チェックのストレージ障害のみ第2戻り値のエラーとなる。
func (v *Validator) Validate(ctx context.Context, values map[string]string) (*Errors, error) {
	errs := newErrors()

	for _, rule := range v.rules {
		value := values[rule.Field]

		if rule.Required && value == "" {
			errs.add(rule.Field, fmt.Sprintf("The %s field is required.", rule.Field))
			continue
		}
		if value == "" {
			continue
		}

		if rule.Email && !isEmail(value) {
			errs.add(rule.Field, fmt.Sprintf("The %s must be a valid email address.", rule.Field))
			continue
		}

		if rule.MinLen > 0 && len([]rune(value)) < rule.MinLen {
			errs.add(rule.Field, fmt.Sprintf("The %s must be at least %d characters.", rule.Field, rule.MinLen))
			continue
		}

		if rule.ConfirmedBy != "" && values[rule.ConfirmedBy] != value {
			errs.add(rule.Field, fmt.Sprintf("The %s confirmation does not match.", rule.Field))
			continue
		}

		if rule.Unique != nil {
			taken, err := rule.Unique(ctx, value)
			if err != nil {
				return nil, fmt.Errorf("uniqueness check failed for %s: %w", rule.Field, err)
			}
			if taken {
				errs.add(rule.Field, fmt.Sprintf("The %s has already been taken.", rule.Field))
			}
		}
	}

	return errs, nil
}

// isEmail はメールアドレス形式かどうかを判定する。
// 表示名付きアドレス（"Name <a@b>"）は受け付けない。
func isEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}
