package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mahdyy18/center-five-system/internal/config"
	"github.com/Mahdyy18/center-five-system/internal/dto"
	"github.com/Mahdyy18/center-five-system/internal/ledger"
	"github.com/Mahdyy18/center-five-system/internal/model"
	"github.com/Mahdyy18/center-five-system/internal/store"
)

var (
	errBadCredentials = errors.New("اسم المستخدم أو كلمة المرور غير صحيحة")
	errBadRefresh     = errors.New("جلسة غير صالحة، يرجى تسجيل الدخول مجددا")
	errUserNotFound   = errors.New("المستخدم غير موجود")
	errUsernameTaken  = errors.New("اسم المستخدم مستخدم بالفعل")
	errLastAdmin      = errors.New("لا يمكن حذف آخر حساب مدير")
)

type AuthService interface {
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(refreshToken string) (*dto.LoginResponse, error)
	CreateUser(req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers() []dto.UserResponse
	ChangePassword(userID string, req dto.ChangePasswordRequest) error
	DeactivateUser(id string) error
}

type authService struct {
	store *store.Store
	cfg   *config.Config
	clock ledger.Clock
}

func NewAuthService(st *store.Store, cfg *config.Config, clock ledger.Clock) AuthService {
	return &authService{store: st, cfg: cfg, clock: clock}
}

func (s *authService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, ok := s.findByUsername(req.Username)
	if !ok || !user.Active {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errBadCredentials
	}
	return s.buildTokens(user)
}

func (s *authService) Refresh(refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errBadRefresh
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errBadRefresh
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errBadRefresh
	}

	user, found := s.findByID(userID)
	if !found || !user.Active {
		return nil, errBadRefresh
	}
	return s.buildTokens(user)
}

func (s *authService) CreateUser(req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, exists := s.findByUsername(req.Username); exists {
		return nil, errUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := model.UserAccount{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		Role:         model.Role(req.Role),
		Active:       true,
		CreatedAt:    s.clock.Now(),
	}
	err = s.store.Update(func(st *store.State) error {
		st.Users = append(st.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.UserResponse{ID: user.ID, Username: user.Username, Role: string(user.Role)}, nil
}

func (s *authService) ListUsers() []dto.UserResponse {
	snap := s.store.Snapshot()
	resp := make([]dto.UserResponse, 0, len(snap.Users))
	for _, u := range snap.Users {
		if !u.Active {
			continue
		}
		resp = append(resp, dto.UserResponse{ID: u.ID, Username: u.Username, Role: string(u.Role)})
	}
	return resp
}

func (s *authService) ChangePassword(userID string, req dto.ChangePasswordRequest) error {
	return s.store.Update(func(st *store.State) error {
		for i := range st.Users {
			u := &st.Users[i]
			if u.ID != userID {
				continue
			}
			if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
				return errBadCredentials
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
			if err != nil {
				return err
			}
			u.PasswordHash = string(hash)
			return nil
		}
		return errUserNotFound
	})
}

// DeactivateUser soft-deletes an account. The last active admin can never be
// deactivated, so the terminal cannot lock itself out.
func (s *authService) DeactivateUser(id string) error {
	return s.store.Update(func(st *store.State) error {
		var target *model.UserAccount
		admins := 0
		for i := range st.Users {
			u := &st.Users[i]
			if u.Active && u.Role == model.RoleAdmin {
				admins++
			}
			if u.ID == id {
				target = u
			}
		}
		if target == nil {
			return errUserNotFound
		}
		if target.Role == model.RoleAdmin && admins <= 1 {
			return errLastAdmin
		}
		target.Active = false
		return nil
	})
}

func (s *authService) buildTokens(user model.UserAccount) (*dto.LoginResponse, error) {
	access, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         dto.UserResponse{ID: user.ID, Username: user.Username, Role: string(user.Role)},
	}, nil
}

func (s *authService) generateToken(user model.UserAccount, duration time.Duration) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      now.Add(duration).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) findByUsername(username string) (model.UserAccount, bool) {
	needle := strings.ToLower(strings.TrimSpace(username))
	for _, u := range s.store.Snapshot().Users {
		if strings.ToLower(u.Username) == needle {
			return u, true
		}
	}
	return model.UserAccount{}, false
}

func (s *authService) findByID(id string) (model.UserAccount, bool) {
	for _, u := range s.store.Snapshot().Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.UserAccount{}, false
}
