package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"myshop_backend/internal/feature/auth/domain/entity"
	shopentity "myshop_backend/internal/feature/shop/domain/entity"
	shopusecase "myshop_backend/internal/feature/shop/usecase"
	"myshop_backend/internal/platform/credential"
	jwtmw "myshop_backend/internal/platform/jwt"
	"myshop_backend/internal/shared/validation"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateCredential はユーザーのパスワードハッシュとソルトを置き換えます。
	UpdateCredential(ctx context.Context, id, hash, salt string) error

	// Bootstrap は既存ユーザーがいない場合に限り、userとshopを原子的に作成します。
	// 既にユーザーが存在する場合、ErrAlreadySeededを返します。
	Bootstrap(ctx context.Context, user *entity.User, shop *shopentity.Shop) error
}

// PasswordHasher derives and checks stored credentials.
type PasswordHasher interface {
	HashForStorage(password string) (credential.Credential, error)
	Verify(password, saltHex, hashHex string) (bool, error)
}

// TokenSigner はセッショントークン生成のインターフェースを定義します。
type TokenSigner interface {
	Sign(id jwtmw.Identity) (string, error)
}

// Dummy credential verified when the email is unknown, so both failure paths
// cost one key derivation.
var (
	dummySalt = strings.Repeat("0", credential.SaltLength*2)
	dummyHash = strings.Repeat("0", credential.KeyLength*2)
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token  string
	UserID string
	Email  string
}

// SeedInput is the raw seed request. Email and Password are validated here.
type SeedInput struct {
	Secret   any
	Email    any
	Password any
}

// SeedResult describes what the bootstrap created.
type SeedResult struct {
	Email  string
	ShopID string
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users      UserRepository
	hasher     PasswordHasher
	tokens     TokenSigner
	seedSecret string
	now        func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// seedSecretが空の場合、HTTP経由のシードは無効になります。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, tokens TokenSigner, seedSecret string) *authUsecase {
	return &authUsecase{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		seedSecret: seedSecret,
		now:        time.Now,
	}
}

// NewUserID returns a 16 hex character id.
func NewUserID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// Login はユーザーを認証し、成功時に署名済みセッショントークンを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもダミーの認証情報で検証を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	salt, hash := dummySalt, dummyHash
	if user != nil {
		salt, hash = user.PasswordSalt, user.PasswordHash
	}

	ok, err := u.hasher.Verify(password, salt, hash)
	if err != nil {
		// 保存済みの値が壊れている
		return nil, fmt.Errorf("verify credential: %w", err)
	}
	if user == nil || !ok {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.Sign(jwtmw.Identity{Subject: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &LoginResult{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// SeedEnabled reports whether a seed secret is configured.
func (u *authUsecase) SeedEnabled() bool {
	return u.seedSecret != ""
}

// Seed checks the shared secret and runs the one-time bootstrap.
func (u *authUsecase) Seed(ctx context.Context, in SeedInput) (*SeedResult, error) {
	if !u.SeedEnabled() {
		return nil, ErrSeedNotConfigured
	}
	secret, ok := in.Secret.(string)
	if !ok || strings.TrimSpace(secret) == "" {
		return nil, ErrSeedSecretRequired
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(u.seedSecret)) != 1 {
		return nil, ErrInvalidSeedSecret
	}
	return u.SeedAdmin(ctx, in.Email, in.Password)
}

// SeedAdmin creates the first admin and a sample shop. It fails with
// ErrAlreadySeeded once any user exists. The CLI calls it without a secret.
func (u *authUsecase) SeedAdmin(ctx context.Context, rawEmail, rawPassword any) (*SeedResult, error) {
	email, err := validation.ValidateEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	password, err := validation.ValidatePassword(rawPassword)
	if err != nil {
		return nil, err
	}

	cred, err := u.hasher.HashForStorage(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := u.now().Unix()
	user := &entity.User{
		ID:           NewUserID(),
		Email:        email,
		PasswordHash: cred.Hash,
		PasswordSalt: cred.Salt,
		CreatedAt:    now,
	}
	shop := shopentity.NewSampleShop(shopusecase.NewShopID(), now)

	if err := u.users.Bootstrap(ctx, user, shop); err != nil {
		if errors.Is(err, ErrAlreadySeeded) {
			return nil, err
		}
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return &SeedResult{Email: email, ShopID: shop.ID}, nil
}

// ResetPassword re-hashes password with a fresh salt for email, creating the
// user when it does not exist. created reports which of the two happened.
func (u *authUsecase) ResetPassword(ctx context.Context, rawEmail, rawPassword string) (created bool, err error) {
	email, err := validation.ValidateEmail(rawEmail)
	if err != nil {
		return false, err
	}
	password, err := validation.ValidatePassword(rawPassword)
	if err != nil {
		return false, err
	}

	cred, err := u.hasher.HashForStorage(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := u.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		err = u.users.Create(ctx, &entity.User{
			ID:           NewUserID(),
			Email:        email,
			PasswordHash: cred.Hash,
			PasswordSalt: cred.Salt,
			CreatedAt:    u.now().Unix(),
		})
		if err != nil {
			return false, fmt.Errorf("create user: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("find user: %w", err)
	}

	if err := u.users.UpdateCredential(ctx, user.ID, cred.Hash, cred.Salt); err != nil {
		return false, fmt.Errorf("update credential: %w", err)
	}
	return false, nil
}
