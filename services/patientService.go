package services

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"HealthcareAPI/repositories"
	"HealthcareAPI/utils"
	"context"
)

type PatientService struct {
	userRepo repositories.UserRepository
	repo     *repositories.PatientRepository
}

func NewPatientService(userRepo repositories.UserRepository, repo *repositories.PatientRepository) *PatientService {
	return &PatientService{userRepo: userRepo, repo: repo}
}

func (s *PatientService) Create(ctx context.Context, caller *utils.Identity, req models.RegisterPatientRequest) (*models.Patient, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	fields := req.PatientFields
	user, err := s.userRepo.Create(ctx, models.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.RolePatient,
		Patient:  &fields,
	})
	if err != nil {
		return nil, err
	}

	patient := user.PatientDetails
	user.PatientDetails = nil
	patient.User = user
	return patient, nil
}

// List returns every patient to admins and only the caller's own record to
// anyone else.
func (s *PatientService) List(ctx context.Context, caller *utils.Identity, filter models.PatientFilter, page models.Page) ([]models.Patient, models.Pagination, error) {
	if caller == nil {
		return nil, models.Pagination{}, apperrors.ErrForbidden
	}
	page = page.Normalize()

	if caller.Role != models.RoleAdmin {
		own, err := s.repo.FindByUserID(ctx, caller.UserID)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		patients := []models.Patient{}
		if own != nil {
			patients = append(patients, *own)
		}
		single := models.Page{Page: 1, Limit: page.Limit}
		return patients, models.NewPagination(single, len(patients), int64(len(patients))), nil
	}

	patients, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return patients, models.NewPagination(page, len(patients), total), nil
}

// Get allows the owning patient and admins.
func (s *PatientService) Get(ctx context.Context, caller *utils.Identity, id int64) (*models.Patient, error) {
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NotFound("patient")
	}
	if err := utils.RequireOwnerOrAdmin(caller, patient.UserID); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *PatientService) Update(ctx context.Context, caller *utils.Identity, id int64, upd models.PatientUpdate) (*models.Patient, error) {
	patient, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateRequest(upd); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, patient.UserID, upd)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperrors.New(apperrors.CodeValidation, "no valid fields to update")
	}
	return updated, nil
}

func (s *PatientService) Delete(ctx context.Context, caller *utils.Identity, id int64) error {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	patient, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if patient == nil {
		return apperrors.NotFound("patient")
	}

	deleted, err := s.repo.Delete(ctx, patient.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("patient")
	}
	return nil
}
