package services

import (
	"HealthcareAPI/apperrors"
	"HealthcareAPI/models"
	"HealthcareAPI/repositories"
	"HealthcareAPI/utils"
	"context"
	"errors"
)

type AssignmentService struct {
	ledger   *repositories.AssignmentRepository
	patients *repositories.PatientRepository
	doctors  *repositories.DoctorRepository
}

func NewAssignmentService(
	ledger *repositories.AssignmentRepository,
	patients *repositories.PatientRepository,
	doctors *repositories.DoctorRepository,
) *AssignmentService {
	return &AssignmentService{ledger: ledger, patients: patients, doctors: doctors}
}

// Assign links a doctor to a patient. An active pair is rejected with
// AlreadyAssigned before the ledger's upsert is reached.
func (s *AssignmentService) Assign(ctx context.Context, caller *utils.Identity, req models.AssignRequest) (*models.Assignment, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	patient, err := s.patients.FindByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NotFound("patient")
	}
	doctor, err := s.doctors.FindByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}

	assigned, err := s.ledger.IsAssigned(ctx, patient.ID, doctor.ID)
	if err != nil {
		return nil, err
	}
	if assigned {
		return nil, apperrors.ErrAlreadyAssigned
	}

	assignment, err := s.ledger.Assign(ctx, patient.ID, doctor.ID, req.Notes)
	if errors.Is(err, apperrors.ErrAlreadyAssigned) {
		return nil, apperrors.ErrAlreadyAssigned
	}
	return assignment, err
}

func (s *AssignmentService) ListAll(ctx context.Context, caller *utils.Identity, page models.Page) ([]models.Assignment, models.Pagination, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, models.Pagination{}, err
	}
	page = page.Normalize()
	rows, total, err := s.ledger.ListAll(ctx, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return rows, models.NewPagination(page, len(rows), total), nil
}

func (s *AssignmentService) Remove(ctx context.Context, caller *utils.Identity, id int64) error {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return err
	}
	return s.ledger.Remove(ctx, id)
}

// DoctorsForPatient allows the owning patient and admins.
func (s *AssignmentService) DoctorsForPatient(ctx context.Context, caller *utils.Identity, patientID int64) ([]models.Assignment, error) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperrors.NotFound("patient")
	}
	if err := utils.RequireOwnerOrAdmin(caller, patient.UserID); err != nil {
		return nil, err
	}
	return s.ledger.ListForPatient(ctx, patient.ID)
}

// PatientsForDoctor is the admin view of a doctor's assignments.
func (s *AssignmentService) PatientsForDoctor(ctx context.Context, caller *utils.Identity, doctorID int64, status string) ([]models.Assignment, error) {
	if err := utils.RequireRole(caller, models.RoleAdmin); err != nil {
		return nil, err
	}
	status, err := assignmentStatus(status)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctors.FindByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}
	return s.ledger.ListForDoctor(ctx, doctor.ID, status)
}

// assignmentStatus defaults an empty status filter to active and rejects
// unknown values.
func assignmentStatus(status string) (string, error) {
	if status == "" {
		return models.AssignmentStatusActive, nil
	}
	switch status {
	case models.AssignmentStatusActive, models.AssignmentStatusInactive, models.AssignmentStatusAll:
		return status, nil
	default:
		return "", apperrors.New(apperrors.CodeValidation, "status must be one of active, inactive, all")
	}
}
