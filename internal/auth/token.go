// Package auth はトークンサービスとパスワードハッシュを提供する。
//
// トークンはHS256署名のJWTで、サーバー側に状態を持たない。
// 有効性は署名検証と有効期限チェックのみで決まる。
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/hitoshi/accountd/internal/model"
)

// Claims はトークンに埋め込む利用者情報。
// RegisteredClaimsのID（jti）により、同一ユーザーへ同時刻に発行した
// トークン同士も必ず異なる値になる。
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenService はベアラートークンの発行・検証・更新・失効を行う。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService はTokenServiceを生成する。
// ttlは発行するすべてのトークンに適用される固定の有効期間。
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue は指定ユーザーのトークンを発行し、トークン文字列と
// 有効期間（秒）を返す。有効期限は now + TTL。
func (s *TokenService) Issue(userID string) (string, int, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}

	return signed, s.ExpiresIn(), nil
}

// Verify はトークンの署名と有効期限を検証し、ユーザーIDを返す。
// 署名不一致・形式不正・期限切れ（now >= exp）はすべてmodel.ErrInvalidToken。
// 時計のずれは補償しない（leewayなし）。
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", model.ErrInvalidToken
	}

	return claims.UserID, nil
}

// Refresh は現在有効なトークンを検証した上で、同一ユーザーに対して
// 新しい有効期限のトークンを発行する。期限切れ・不正なトークンは
// 更新できずmodel.ErrInvalidTokenを返す。
// 提示されたトークン自体は無効化されず、自身の有効期限まで使用できる。
func (s *TokenService) Refresh(tokenString string) (string, int, error) {
	userID, err := s.Verify(tokenString)
	if err != nil {
		return "", 0, err
	}
	return s.Issue(userID)
}

// Revoke はログアウト時の失効操作。ステートレス設計のため
// サーバー側の無効化は行わず、確認応答のみを返す。
// 提示されたトークンは自身の有効期限まで検証を通過し続ける。
func (s *TokenService) Revoke(tokenString string) error {
	_, err := s.Verify(tokenString)
	return err
}

// ExpiresIn はトークンの有効期間を秒単位で返す。
func (s *TokenService) ExpiresIn() int {
	return int(s.ttl / time.Second)
}
