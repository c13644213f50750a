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

const (
	DoctorCacheExpiry     = time.Hour
	specializationsKey    = "doctor_specializations"
	doctorCacheKeyPattern = "doctor_cache:%d"
)

func doctorCacheKey(id int64) string {
	return fmt.Sprintf(doctorCacheKeyPattern, id)
}

// invalidateDoctorDirectory drops the cached doctor (when id > 0) and the
// specialization list. Cache failures are logged, never returned.
func invalidateDoctorDirectory(ctx context.Context, c *cache.Cache, id int64) {
	keys := []string{specializationsKey}
	if id > 0 {
		keys = append(keys, doctorCacheKey(id))
	}
	if err := c.DeleteBatch(ctx, keys...); err != nil {
		log.Warn().Err(err).Int64("doctorId", id).Msg("failed to invalidate doctor cache")
	}
}

// FlushDoctorDirectory drops every cached doctor and the specialization list.
// Run after schema changes, when cached rows may no longer match the models.
func FlushDoctorDirectory(ctx context.Context, c *cache.Cache) error {
	if err := c.DeleteAll(ctx, "doctor_cache:*"); err != nil {
		return fmt.Errorf("failed to flush doctor cache: %w", err)
	}
	return c.Delete(ctx, specializationsKey)
}

// DoctorList is a page of the public directory.
type DoctorList struct {
	Doctors         []models.Doctor
	Pagination      models.Pagination
	Specializations []string
}

type DoctorService struct {
	userRepo repositories.UserRepository
	repo     *repositories.DoctorRepository
	ledger   *repositories.AssignmentRepository
	cache    *cache.Cache
}

func NewDoctorService(
	userRepo repositories.UserRepository,
	repo *repositories.DoctorRepository,
	ledger *repositories.AssignmentRepository,
	cache *cache.Cache,
) *DoctorService {
	return &DoctorService{userRepo: userRepo, repo: repo, ledger: ledger, cache: cache}
}

func (s *DoctorService) Create(ctx context.Context, caller *utils.Identity, req models.RegisterDoctorRequest) (*models.Doctor, error) {
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

	doctor := user.DoctorDetails
	user.DoctorDetails = nil
	doctor.User = user
	return doctor, nil
}

func (s *DoctorService) List(ctx context.Context, filter models.DoctorFilter, page models.Page) (*DoctorList, error) {
	page = page.Normalize()
	doctors, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	specs, err := s.Specializations(ctx)
	if err != nil {
		return nil, err
	}
	return &DoctorList{
		Doctors:         doctors,
		Pagination:      models.NewPagination(page, len(doctors), total),
		Specializations: specs,
	}, nil
}

// Get reads through the doctor cache.
func (s *DoctorService) Get(ctx context.Context, id int64) (*models.Doctor, error) {
	key := doctorCacheKey(id)
	var cached models.Doctor
	if found, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to get doctor from cache")
	} else if found {
		return &cached, nil
	}

	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}

	if err := s.cache.SetJSON(ctx, key, doctor, DoctorCacheExpiry); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to set doctor in cache")
	}
	return doctor, nil
}

func (s *DoctorService) Specializations(ctx context.Context) ([]string, error) {
	var cached []string
	if found, err := s.cache.GetJSON(ctx, specializationsKey, &cached); err != nil {
		log.Warn().Err(err).Msg("failed to get specializations from cache")
	} else if found {
		return cached, nil
	}

	specs, err := s.repo.Specializations(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, specializationsKey, specs, DoctorCacheExpiry); err != nil {
		log.Warn().Err(err).Msg("failed to set specializations in cache")
	}
	return specs, nil
}

func (s *DoctorService) Update(ctx context.Context, caller *utils.Identity, id int64, upd models.DoctorUpdate) (*models.Doctor, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}
	return s.update(ctx, doctor, upd)
}

func (s *DoctorService) update(ctx context.Context, doctor *models.Doctor, upd models.DoctorUpdate) (*models.Doctor, error) {
	if err := utils.ValidateRequest(upd); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, doctor.UserID, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "no valid fields to update")
	}
	invalidateDoctorDirectory(ctx, s.cache, doctor.ID)
	return updated, nil
}

func (s *DoctorService) Delete(ctx context.Context, caller *utils.Identity, id int64) error {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	doctor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if doctor == nil {
		return apperrors.NotFound("doctor")
	}

	deleted, err := s.repo.Delete(ctx, doctor.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("doctor")
	}
	invalidateDoctorDirectory(ctx, s.cache, doctor.ID)
	return nil
}

// Me returns the caller's own doctor profile.
func (s *DoctorService) Me(ctx context.Context, caller *utils.Identity) (*models.Doctor, error) {
	if err := utils.RequireRole(caller, models.RoleDoctor); err != nil {
		return nil, err
	}
	doctor, err := s.repo.FindByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor profile")
	}
	return doctor, nil
}

func (s *DoctorService) UpdateMe(ctx context.Context, caller *utils.Identity, upd models.DoctorUpdate) (*models.Doctor, error) {
	doctor, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, doctor, upd)
}

// MyPatients lists the caller's assignments filtered by status.
func (s *DoctorService) MyPatients(ctx context.Context, caller *utils.Identity, status string) ([]models.Assignment, error) {
	status, err := assignmentStatus(status)
	if err != nil {
		return nil, err
	}

	doctor, err := s.Me(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.ledger.ListForDoctor(ctx, doctor.ID, status)
}
