package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"pony-express/internal/model"
	"pony-express/pkg/apierror"
)

// TokenCookieName is the cookie carrier for the access token on web flows.
const TokenCookieName = "pony_express_token"

const bcryptCost = 12

// AccountFinder is the account lookup surface the verifier needs.
type AccountFinder interface {
	FindByID(ctx context.Context, id int64) (model.Account, error)
	FindByUsername(ctx context.Context, username string) (model.Account, error)
}

// AuthService issues and verifies access tokens and checks credentials.
//
// Tokens are stateless: logout only clears the cookie carrier, so a bearer
// token stays cryptographically valid until its natural expiry. There is no
// server-side revocation list.
type AuthService struct {
	secret   []byte
	issuer   string
	tokenTTL time.Duration
	accounts AccountFinder
}

func NewAuthService(secret string, issuer string, tokenTTL time.Duration, accounts AccountFinder) (*AuthService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if issuer == "" {
		return nil, errors.New("token issuer is required")
	}

	return &AuthService{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenTTL: tokenTTL,
		accounts: accounts,
	}, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func (s *AuthService) CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyCredentials reports whether the username exists and the password
// matches. It never fails: an unknown username, a wrong password, and a
// lookup error all read as false.
func (s *AuthService) VerifyCredentials(ctx context.Context, username string, password string) bool {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return false
	}
	return s.CheckPassword(password, account.PasswordHash)
}

// IssueToken signs an HS256 token for the account with claims
// {sub, iss, iat, exp}. The expiry is iat plus the configured TTL, read at
// call time, so a service built with a negative TTL mints already-expired
// tokens.
func (s *AuthService) IssueToken(accountID int64) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(accountID, 10),
		"iss": s.issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Login verifies the credentials and returns a fresh token, or
// invalid_credentials without revealing whether the username or the password
// was wrong.
func (s *AuthService) Login(ctx context.Context, username string, password string) (string, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil || !s.CheckPassword(password, account.PasswordHash) {
		return "", apierror.InvalidCredentials()
	}

	return s.IssueToken(account.ID)
}

// ResolveAccount validates the token and resolves it to an account. The
// checks run in a fixed order so the reported error kind is deterministic:
//
//  1. signature and structure (HS256 only, claims validation deferred)
//  2. presence of all required claims (sub, iss, iat, exp)
//  3. expiry
//  4. account lookup by sub
//
// A token that is both malformed and expired reports invalid, not expired,
// because expiry is only examined once the structure checks pass. A valid
// token whose subject no longer resolves also reports invalid so downstream
// code never sees a zero identity.
func (s *AuthService) ResolveAccount(ctx context.Context, tokenString string) (model.Account, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := jwt.MapClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return model.Account{}, apierror.InvalidAccessToken()
	}

	sub, _ := claims["sub"].(string)
	iss, _ := claims["iss"].(string)
	exp, hasExp := claims["exp"].(float64)
	_, hasIat := claims["iat"].(float64)
	if sub == "" || iss == "" || !hasExp || !hasIat {
		return model.Account{}, apierror.InvalidAccessToken()
	}

	if time.Now().Unix() >= int64(exp) {
		return model.Account{}, apierror.ExpiredAccessToken()
	}

	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return model.Account{}, apierror.InvalidAccessToken()
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return model.Account{}, apierror.InvalidAccessToken()
	}

	return account, nil
}
