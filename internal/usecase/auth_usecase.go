package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinical-data-api/internal/converter"
	"clinical-data-api/internal/delivery/dto"
	"clinical-data-api/internal/domain/entity"
	"clinical-data-api/internal/domain/repository"
	"clinical-data-api/internal/infrastructure/database"
	"clinical-data-api/internal/service"
	"clinical-data-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrLicenseAlreadyExists    = errors.New("medical license number already exists")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrTokenRevoked            = errors.New("token has been revoked")
	ErrDoctorNotFound          = errors.New("doctor not found")
	ErrNoConsultantAvailable   = errors.New("no consultants available to supervise")
	ErrSupervisorNotFound      = errors.New("supervisor not found")
	ErrSupervisorNotConsultant = errors.New("supervisor must be a consultant")
)

type AuthUsecase interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.DoctorResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, doctorID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
}

type authUsecase struct {
	txm          database.TxManager
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	hasher       PasswordHasher
	redisClient  *redis.Client
}

func NewAuthUsecase(
	txm database.TxManager,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	hasher PasswordHasher,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		txm:          txm,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		jwtService:   jwtService,
		hasher:       hasher,
		redisClient:  redisClient,
	}
}

// Register creates a resident account. The role is forced server-side:
// public registration never produces a consultant. When no supervisor is
// supplied the first available consultant is assigned; registration fails
// when none exists.
func (u *authUsecase) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.DoctorResponse, error) {
	hashedPassword, err := u.hasher.Hash(req.Password)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	var created *entity.Doctor
	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		supervisorID, err := u.resolveSupervisor(tx, req.SupervisorID)
		if err != nil {
			return err
		}

		active := true
		doctor := &entity.Doctor{
			Email:                req.Email,
			Password:             hashedPassword,
			FirstName:            req.FirstName,
			LastName:             req.LastName,
			DoctorType:           entity.DoctorTypeResident,
			Specialty:            req.Specialty,
			MedicalLicenseNumber: req.MedicalLicenseNumber,
			YearsOfExperience:    req.YearsOfExperience,
			Department:           req.Department,
			Bio:                  req.Bio,
			SupervisorID:         &supervisorID,
			IsActive:             &active,
		}

		if err := u.doctorRepo.Create(tx, doctor); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isDuplicateKeyError(err, "medical_license_number") {
				return ErrLicenseAlreadyExists
			}
			u.log.Warnf("Failed to create doctor: %+v", err)
			return err
		}

		created = doctor
		return u.auditService.Log(ctx, tx, &doctor.ID, entity.AuditActionDoctorRegister, entity.JSON{
			"email":         doctor.Email,
			"supervisor_id": supervisorID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Registered resident %s (supervisor %s)", created.Email, created.SupervisorID)
	return converter.DoctorToResponse(created), nil
}

// resolveSupervisor validates a supplied supervisor or falls back to the
// first available consultant (arbitrary ordering, no balancing policy).
func (u *authUsecase) resolveSupervisor(tx *gorm.DB, supplied string) (uuid.UUID, error) {
	if supplied != "" {
		supervisorID, err := uuid.Parse(supplied)
		if err != nil {
			return uuid.Nil, ErrSupervisorNotFound
		}
		supervisor, err := u.doctorRepo.FindByID(tx, supervisorID)
		if err != nil {
			return uuid.Nil, err
		}
		if supervisor == nil {
			return uuid.Nil, ErrSupervisorNotFound
		}
		if !supervisor.IsConsultant() {
			return uuid.Nil, ErrSupervisorNotConsultant
		}
		return supervisor.ID, nil
	}

	consultant, err := u.doctorRepo.FindFirstConsultant(tx)
	if err != nil {
		return uuid.Nil, err
	}
	if consultant == nil {
		return uuid.Nil, ErrNoConsultantAvailable
	}
	return consultant.ID, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	doctor, err := u.doctorRepo.FindByEmail(u.txm.WithContext(ctx), req.Email)
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrInvalidCredentials
	}

	if err := u.hasher.Compare(doctor.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(doctor.ID, doctor.Email, string(doctor.DoctorType))
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(doctor.ID, doctor.Email, string(doctor.DoctorType))
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.storeTokens(ctx, doctor.ID, accessTokenID, refreshTokenID); err != nil {
		return nil, err
	}

	// Best effort: a failed audit write must not block the login
	if err := u.auditService.Log(ctx, u.txm.WithContext(ctx), &doctor.ID, entity.AuditActionDoctorLogin, entity.JSON{
		"email": doctor.Email,
	}); err != nil {
		u.log.Warnf("Failed to audit login: %+v", err)
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		DoctorType:   string(doctor.DoctorType),
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the presented access token and, when supplied, the
// matching refresh token. An invalid refresh token is ignored; the access
// revocation is what ends the session.
func (u *authUsecase) Logout(ctx context.Context, doctorID uuid.UUID, accessTokenID, refreshToken string) error {
	if err := u.deleteTokensByID(ctx, "access_token", accessTokenID); err != nil {
		return err
	}

	if err := u.auditService.Log(ctx, u.txm.WithContext(ctx), &doctorID, entity.AuditActionDoctorLogout, nil); err != nil {
		u.log.Warnf("Failed to audit logout: %+v", err)
	}

	if refreshToken == "" {
		return nil
	}

	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.TokenType != jwt.RefreshToken {
		return nil
	}
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.DoctorID.String(), claims.TokenID)
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete refresh token: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	refreshKey := fmt.Sprintf("refresh_token:%s:%s", claims.DoctorID.String(), claims.TokenID)
	exists, err := u.redisClient.Exists(ctx, refreshKey).Result()
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTokenRevoked
	}

	// Rotate: old refresh token is single-use
	if err := u.redisClient.Del(ctx, refreshKey).Err(); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(claims.DoctorID, claims.Email, claims.DoctorType)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(claims.DoctorID, claims.Email, claims.DoctorType)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.storeTokens(ctx, claims.DoctorID, accessTokenID, refreshTokenID); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		DoctorType:   claims.DoctorType,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

func (u *authUsecase) GetCurrentDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.txm.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *authUsecase) storeTokens(ctx context.Context, doctorID uuid.UUID, accessTokenID, refreshTokenID string) error {
	accessKey := fmt.Sprintf("access_token:%s:%s", doctorID.String(), accessTokenID)
	refreshKey := fmt.Sprintf("refresh_token:%s:%s", doctorID.String(), refreshTokenID)

	if err := u.redisClient.Set(ctx, accessKey, "valid", u.jwtService.GetAccessExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return err
	}
	if err := u.redisClient.Set(ctx, refreshKey, "valid", u.jwtService.GetRefreshExpiry()).Err(); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return err
	}
	return nil
}

func (u *authUsecase) deleteTokensByID(ctx context.Context, prefix, tokenID string) error {
	pattern := fmt.Sprintf("%s:*:%s", prefix, tokenID)
	keys, err := u.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		u.log.Warnf("Failed to get %s keys: %+v", prefix, err)
		return err
	}
	if len(keys) > 0 {
		if err := u.redisClient.Del(ctx, keys...).Err(); err != nil {
			u.log.Warnf("Failed to delete %s: %+v", prefix, err)
			return err
		}
	}
	return nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint
// violation containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key
// violation containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
