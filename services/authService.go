package services

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/cache"
	"HealthcareAPI/models"
	"HealthcareAPI/repositories"
	"HealthcareAPI/utils"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error)
	RegisterPatient(ctx context.Context, caller *utils.Identity, req models.RegisterPatientRequest) (*models.User, error)
	RegisterDoctor(ctx context.Context, caller *utils.Identity, req models.RegisterDoctorRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error)
	Me(ctx context.Context, caller *utils.Identity) (*models.User, error)
	ChangePassword(ctx context.Context, caller *utils.Identity, req models.ChangePasswordRequest) error
	RefreshToken(ctx context.Context, caller *utils.Identity) (*AuthResult, error)
	SendResetCode(ctx context.Context, req models.SendResetCodeRequest) error
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
	ListUsers(ctx context.Context, caller *utils.Identity, role string, page models.Page) ([]models.User, models.Pagination, error)
	DeleteUser(ctx context.Context, caller *utils.Identity, id int64) error
	LookupIdentity(ctx context.Context, userID int64) (*utils.Identity, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	tokens     *utils.TokenManager
	resetCodes *utils.ResetCodeStore
	mailer     utils.Mailer
	cache      *cache.Cache
}

// NewAuthService wires the credential store and token manager. resetCodes and
// mailer may be nil, in which case the reset flow reports Unavailable.
func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *utils.TokenManager,
	resetCodes *utils.ResetCodeStore,
	mailer utils.Mailer,
	cache *cache.Cache,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		resetCodes: resetCodes,
		mailer:     mailer,
		cache:      cache,
	}
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt, ExpiresIn: s.tokens.TTL()}, nil
}

// Register is the public sign-up. Only admin accounts may be created here.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*AuthResult, error) {
	if req.Role == "" {
		req.Role = models.RoleAdmin
	}
	if req.Role != models.RoleAdmin {
		return nil, apperrors.New(apperrors.CodeInvalidRequest, "only admin registration is allowed on this route")
	}
	if err := utils.ValidateRequest(req.Credentials); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Create(ctx, models.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("userId", user.ID).Msg("admin registered")
	return s.issue(user)
}

func (s *authService) RegisterPatient(ctx context.Context, caller *utils.Identity, req models.RegisterPatientRequest) (*models.User, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	fields := req.PatientFields
	return s.userRepo.Create(ctx, models.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RolePatient,
		Patient:  &fields,
	})
}

func (s *authService) RegisterDoctor(ctx context.Context, caller *utils.Identity, req models.RegisterDoctorRequest) (*models.User, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	fields := req.DoctorFields
	user, err := s.userRepo.Create(ctx, models.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RoleDoctor,
		Doctor:   &fields,
	})
	if err != nil {
		return nil, err
	}
	invalidateDoctorDirectory(ctx, s.cache, 0)
	return user, nil
}

// Login fails with the same error for an unknown email and a wrong password.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error) {
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPassword(req.Password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, caller *utils.Identity) (*models.User, error) {
	if caller == nil {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, caller.UserID, true)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, caller *utils.Identity, req models.ChangePasswordRequest) error {
	if caller == nil {
		return apperrors.ErrInvalidToken
	}
	if err := utils.ValidateRequest(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, caller.UserID, false)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user")
	}
	if !utils.CheckPassword(req.CurrentPassword, user.Password) {
		return apperrors.New(apperrors.CodeInvalidCredentials, "current password is incorrect")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}

func (s *authService) RefreshToken(ctx context.Context, caller *utils.Identity) (*AuthResult, error) {
	user, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) resetConfigured() bool {
	return s.resetCodes.Enabled() && s.mailer != nil
}

// SendResetCode mails a one-time code. Unknown emails succeed silently.
func (s *authService) SendResetCode(ctx context.Context, req models.SendResetCodeRequest) error {
	if !s.resetConfigured() {
		return apperrors.New(apperrors.CodeUnavailable, "password reset is not configured")
	}
	if err := utils.ValidateRequest(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		log.Debug().Msg("reset code requested for unknown email")
		return nil
	}

	code, err := s.resetCodes.Issue(ctx, user.Email)
	if err != nil {
		return err
	}
	if err := s.mailer.SendResetCode(user.Email, code); err != nil {
		return apperrors.Internal(fmt.Errorf("send reset code: %w", err))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if !s.resetConfigured() {
		return apperrors.New(apperrors.CodeUnavailable, "password reset is not configured")
	}
	if err := utils.ValidateRequest(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.New(apperrors.CodeValidation, "invalid reset code")
	}
	if err := s.resetCodes.Consume(ctx, user.Email, req.Code); err != nil {
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Internal(err)
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hash)
}

func (s *authService) ListUsers(ctx context.Context, caller *utils.Identity, role string, page models.Page) ([]models.User, models.Pagination, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, models.Pagination{}, err
	}
	if role != "" && !models.IsValidRole(role) {
		return nil, models.Pagination{}, apperrors.New(apperrors.CodeValidation, "unknown role filter")
	}

	page = page.Normalize()
	users, total, err := s.userRepo.List(ctx, role, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return users, models.NewPagination(page, len(users), total), nil
}

func (s *authService) DeleteUser(ctx context.Context, caller *utils.Identity, id int64) error {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	if caller.UserID == id {
		return apperrors.New(apperrors.CodeInvalidRequest, "admins cannot delete their own account")
	}

	user, err := s.userRepo.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user")
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	if user.DoctorDetails != nil {
		invalidateDoctorDirectory(ctx, s.cache, user.DoctorDetails.ID)
	}
	return nil
}

// LookupIdentity re-confirms that a token subject still exists.
func (s *authService) LookupIdentity(ctx context.Context, userID int64) (*utils.Identity, error) {
	user, err := s.userRepo.FindByID(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &utils.Identity{UserID: user.ID, Role: user.Role, Email: user.Email, Name: user.Name}, nil
}
