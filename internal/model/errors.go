package model

import "errors"

// サービス層・リポジトリ層からハンドラー層へ伝播するセンチネルエラー。
// ハンドラー境界でHTTPステータスとレスポンスエンベロープに変換される。
var (
	// ErrUserNotFound は指定されたユーザーが存在しない場合に返される。
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail はemailの一意制約に違反した場合に返される。
	// バリデーション層の事前チェックとDBのユニークインデックスの両方が検出しうる。
	ErrDuplicateEmail = errors.New("email has already been taken")

	// ErrInvalidCredentials はログイン時の認証情報が一致しない場合に返される。
	// emailが未登録の場合とパスワード不一致の場合を区別しない。
	ErrInvalidCredentials = errors.New("invalid login details")

	// ErrInvalidToken は署名不正・形式不正・期限切れのトークンに対して返される。
	// 呼び出し側はこれ以上の失敗理由を区別できない。
	ErrInvalidToken = errors.New("invalid token")
)
