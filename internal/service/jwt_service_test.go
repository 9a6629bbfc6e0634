package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"edupath/internal/domain"
)

func newStudent() domain.User {
	return domain.User{ID: "stu-1", Email: "student@example.com", DisplayName: "Asha", CreatedAt: time.Now().UTC()}
}

func TestJWTService_PairCarriesTypedClaims(t *testing.T) {
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, time.Hour, NewMemoryRefreshTokenStore())

	pair, err := svc.GeneratePair(newStudent())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	claims, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.TokenType != tokenTypeAccess || claims.Issuer != "edupath" || claims.Subject != "stu-1" {
		t.Fatalf("unexpected access claims %+v", claims)
	}
	if claims.ID != "" {
		t.Fatalf("access tokens carry no jti, got %q", claims.ID)
	}

	refresh, err := svc.parseToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if refresh.TokenType != tokenTypeRefresh || refresh.ID == "" {
		t.Fatalf("unexpected refresh claims %+v", refresh)
	}
	if _, err := svc.ParseAccessToken(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("refresh token must not authenticate requests, got %v", err)
	}
	if _, err := svc.RefreshPair(pair.AccessToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("access token must not rotate, got %v", err)
	}
}

func TestJWTService_DefaultTTLs(t *testing.T) {
	svc := NewJWTService("secret", 0, 0)
	before := time.Now().UTC()

	pair, err := svc.GeneratePair(newStudent())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	access, _ := svc.ParseAccessToken(pair.AccessToken)
	if got := access.ExpiresAt.Sub(before); got < 14*time.Minute || got > 16*time.Minute {
		t.Fatalf("expected 15m access ttl, got %v", got)
	}
	refresh, _ := svc.parseToken(pair.RefreshToken)
	if got := refresh.ExpiresAt.Sub(before); got < defaultRefreshTTL-time.Minute || got > defaultRefreshTTL+time.Minute {
		t.Fatalf("expected default refresh ttl, got %v", got)
	}
}

func TestJWTService_RotationOverRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	svc := NewJWTServiceWithStore("secret", 15*time.Minute, time.Hour, NewRedisRefreshTokenStore(client))

	pair, err := svc.GeneratePair(newStudent())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	first, _ := svc.parseToken(pair.RefreshToken)
	if got, _ := mr.Get("edupath:refresh:" + first.ID); got != "stu-1" {
		t.Fatalf("expected refresh jti stored for the student, got %q", got)
	}

	rotated, err := svc.RefreshPair(pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh pair: %v", err)
	}
	if mr.Exists("edupath:refresh:" + first.ID) {
		t.Fatalf("expected old jti removed after rotation")
	}
	second, _ := svc.parseToken(rotated.RefreshToken)
	if second.ID == first.ID || !mr.Exists("edupath:refresh:"+second.ID) {
		t.Fatalf("expected a fresh stored jti, got %q", second.ID)
	}
	if _, err := svc.RefreshPair(pair.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected replayed refresh token to fail, got %v", err)
	}

	if err := svc.RevokeRefresh(rotated.RefreshToken); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.RefreshPair(rotated.RefreshToken); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected refresh to fail after logout, got %v", err)
	}
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := NewJWTService("secret", 15*time.Minute, time.Hour)
	now := time.Now().UTC()
	sign := func(secret, issuer string, exp time.Time) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			UserID:    "stu-1",
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   "stu-1",
				IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
				ExpiresAt: jwt.NewNumericDate(exp),
			},
		})
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return signed
	}

	if _, err := svc.ParseAccessToken(sign("other", "edupath", now.Add(time.Hour))); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for another secret, got %v", err)
	}
	if _, err := svc.ParseAccessToken(sign("secret", "clone-service", now.Add(time.Hour))); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for another issuer, got %v", err)
	}
	if _, err := svc.ParseAccessToken(sign("secret", "edupath", now.Add(-time.Minute))); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
	if _, err := NewJWTService("", 0, 0).GeneratePair(newStudent()); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid on empty secret, got %v", err)
	}
}

func TestJWTService_AccessTokenOwnsQuizSession(t *testing.T) {
	jwtSvc := NewJWTService("secret", 15*time.Minute, time.Hour)
	d := newTestAssessment(t)
	quizzes := NewQuizSessionService(zap.NewNop(), d.svc, nil, time.Hour)
	ctx := context.Background()

	owner, _ := jwtSvc.GeneratePair(newStudent())
	intruder, _ := jwtSvc.GeneratePair(domain.User{ID: "stu-2", Email: "other@example.com"})
	ownerClaims, err := jwtSvc.ParseAccessToken(owner.AccessToken)
	if err != nil {
		t.Fatalf("parse owner: %v", err)
	}
	intruderClaims, err := jwtSvc.ParseAccessToken(intruder.AccessToken)
	if err != nil {
		t.Fatalf("parse intruder: %v", err)
	}

	start, err := quizzes.Start(ctx, ownerClaims.UserID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := quizzes.Get(ctx, start.ID, intruderClaims.UserID); !errors.Is(err, ErrSessionForbidden) {
		t.Fatalf("expected ErrSessionForbidden for another student, got %v", err)
	}

	done := answerAll(t, quizzes, start.ID, ownerClaims.UserID)
	if done.Result == nil {
		t.Fatalf("expected result on completion")
	}
	history, _ := d.recs.ListByUser(ctx, "stu-1", 10)
	if len(history) != 1 || history[0].Stream != done.Result.Stream {
		t.Fatalf("expected completed quiz persisted for the token's user, got %+v", history)
	}
}
