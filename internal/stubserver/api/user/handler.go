package user

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"travelex/internal/stubserver/api/apierr"
	authmw "travelex/internal/stubserver/api/middleware/auth"
	serverauth "travelex/internal/stubserver/auth"
	"travelex/internal/stubserver/storage"
)

type Handler struct {
	store      storage.Store
	secret     []byte
	tokenTTL   time.Duration
	log        *slog.Logger
	public     huma.Middlewares
	authorized huma.Middlewares
}

func NewHandler(store storage.Store, secret []byte, tokenTTL time.Duration, log *slog.Logger, public, authorized huma.Middlewares) *Handler {
	return &Handler{
		store:      store,
		secret:     secret,
		tokenTTL:   tokenTTL,
		log:        log.With("component", "user_handler"),
		public:     public,
		authorized: authorized,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.loginOp(), h.login)
	huma.Register(api, h.mfaEnrollOp(), h.mfaEnroll)
	huma.Register(api, h.mfaConfirmOp(), h.mfaConfirm)
}

func (h *Handler) login(ctx context.Context, input *loginInput) (*loginOutput, error) {
	u, err := h.store.GetUserByLogin(ctx, input.Body.Login)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, huma.Error401Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Body.Password)) != nil {
		h.log.Info("login rejected", "login", input.Body.Login)
		return nil, huma.Error401Unauthorized("invalid credentials")
	}

	token, err := serverauth.GenerateToken(u.ID, h.secret, h.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	h.log.Info("operator logged in", "login", u.Login)
	return &loginOutput{Body: loginResponse{Token: token}}, nil
}

func (h *Handler) mfaEnroll(ctx context.Context, _ *mfaEnrollInput) (*mfaEnrollOutput, error) {
	userID, ok := authmw.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	secret, err := newTOTPSecret()
	if err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	// A fresh Begin discards any previous pending enrollment.
	if err := h.store.SetMFA(ctx, userID, secret, false); err != nil {
		return nil, fmt.Errorf("store mfa secret: %w", err)
	}

	u, err := h.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("otpauth://totp/Travelex:%s?secret=%s&issuer=Travelex", u.Login, secret)
	return &mfaEnrollOutput{Body: mfaEnrollResponse{Secret: secret, OTPAuthURL: url}}, nil
}

func (h *Handler) mfaConfirm(ctx context.Context, input *mfaConfirmInput) (*mfaConfirmOutput, error) {
	userID, ok := authmw.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("unauthorized")
	}

	u, err := h.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.MFASecret == "" {
		return nil, huma.Error409Conflict("no pending enrollment")
	}

	// Dev stub: any six digits confirm. A real backend verifies TOTP.
	if !isSixDigits(input.Body.Code) {
		return nil, apierr.New(map[string]string{"code": "must be a 6-digit code"})
	}

	if err := h.store.SetMFA(ctx, userID, u.MFASecret, true); err != nil {
		return nil, fmt.Errorf("activate mfa: %w", err)
	}

	h.log.Info("mfa activated", "login", u.Login)
	return &mfaConfirmOutput{}, nil
}

func newTOTPSecret() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}

func isSixDigits(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
