package services

import (
	"context"
	"errors"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"
	"jobnest_backend/internal/services/dto"
	"jobnest_backend/pkg/apperrors"

	"github.com/gosimple/slug"
)

const (
	defaultJobsPage  = 1
	defaultJobsLimit = 10
)

type JobService interface {
	// Create сохраняет вакансию и рассылает NEW_JOB подписчикам автора
	Create(ctx context.Context, posterID string, req *dto.CreateJobRequest) (*models.Job, error)
	Get(ctx context.Context, jobID string) (*models.Job, error)
	Search(ctx context.Context, query *dto.JobSearchQuery) (*dto.JobListResponse, error)
	Filter(ctx context.Context, req *dto.JobFilterRequest) ([]models.Job, error)
	Update(ctx context.Context, jobID, userID string, req *dto.UpdateJobRequest) (*models.Job, error)
	Delete(ctx context.Context, jobID, userID string) error
	Apply(ctx context.Context, jobID, userID string) error
}

type jobService struct {
	store  repositories.Store
	fanout FanOut
}

func NewJobService(store repositories.Store, fanout FanOut) JobService {
	return &jobService{store: store, fanout: fanout}
}

func (s *jobService) Create(ctx context.Context, posterID string, req *dto.CreateJobRequest) (*models.Job, error) {
	poster, err := s.store.Users().FindByID(ctx, posterID)
	if err != nil {
		return nil, userLookupError(err)
	}

	job := &models.Job{
		Title:           req.Title,
		Company:         req.Company,
		CompanyLogo:     req.CompanyLogo,
		Location:        req.Location,
		Area:            req.Area,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Skills:          req.Skills,
		Specializations: req.Specializations,
		JobType:         req.JobType,
		EmploymentType:  req.EmploymentType,
		JobCategory:     req.JobCategory,
		Department:      req.Department,
		Shift:           req.Shift,
		Openings:        req.Openings,
		Languages:       req.Languages,
		HospitalDetails: req.HospitalDetails,
		PostedByID:      poster.ID,
	}
	if req.Salary != nil {
		job.Salary = salaryFromInput(req.Salary)
	}
	if req.Experience != nil {
		job.Experience = models.Experience{Min: req.Experience.Min, Max: req.Experience.Max}
	}
	job.ApplyDefaults()
	job.EnsureID()
	job.Slug = jobSlug(job)

	if err := s.store.Jobs().Create(ctx, job); err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "slug", job.Slug)

	s.fanout.OnJobPosted(ctx, poster, job)

	job.PostedBy = poster.Contact()
	return job, nil
}

func (s *jobService) Get(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, jobLookupError(err)
	}

	single := []models.Job{*job}
	if err := s.populatePosters(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

func (s *jobService) Search(ctx context.Context, query *dto.JobSearchQuery) (*dto.JobListResponse, error) {
	page := query.Page
	if page <= 0 {
		page = defaultJobsPage
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultJobsLimit
	}

	jobs, total, err := s.store.Jobs().Search(ctx, repositories.JobSearch{
		Search:     query.Search,
		Location:   query.Location,
		JobType:    query.JobType,
		Experience: query.Experience,
		SalaryMin:  query.SalaryMin,
		SalaryMax:  query.SalaryMax,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := s.populatePosters(ctx, jobs); err != nil {
		return nil, err
	}

	return &dto.JobListResponse{
		Jobs:        jobs,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		CurrentPage: page,
		Total:       total,
	}, nil
}

func (s *jobService) Filter(ctx context.Context, req *dto.JobFilterRequest) ([]models.Job, error) {
	filter := repositories.JobFilter{
		Search:         req.Search,
		Skills:         req.Skills,
		Specialization: req.Specialization,
		JobType:        req.JobType,
		Languages:      req.Languages,
		Location:       req.Location,
	}
	if req.Experience != nil {
		filter.Experience = &repositories.IntRange{Min: req.Experience.Min, Max: req.Experience.Max}
	}
	if req.Compensation != nil {
		filter.Compensation = &repositories.FloatRange{Min: req.Compensation.Min, Max: req.Compensation.Max}
	}

	jobs, err := s.store.Jobs().Filter(ctx, filter)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return jobs, nil
}

func (s *jobService) Update(ctx context.Context, jobID, userID string, req *dto.UpdateJobRequest) (*models.Job, error) {
	job, err := s.ownedJob(ctx, jobID, userID)
	if err != nil {
		return nil, err
	}

	titleChanged := req.Title != nil && *req.Title != job.Title
	applyJobUpdate(job, req)
	if titleChanged {
		job.Slug = jobSlug(job)
	}

	if err := s.store.Jobs().Update(ctx, job); err != nil {
		return nil, jobLookupError(err)
	}
	logger.CtxInfo(ctx, "Job updated", "job_id", job.ID)
	return job, nil
}

func (s *jobService) Delete(ctx context.Context, jobID, userID string) error {
	if _, err := s.ownedJob(ctx, jobID, userID); err != nil {
		return err
	}
	if err := s.store.Jobs().Delete(ctx, jobID); err != nil {
		return jobLookupError(err)
	}
	logger.CtxInfo(ctx, "Job deleted", "job_id", jobID)
	return nil
}

func (s *jobService) Apply(ctx context.Context, jobID, userID string) error {
	added, err := s.store.Jobs().AddApplicant(ctx, jobID, userID)
	if err != nil {
		return jobLookupError(err)
	}
	if !added {
		return apperrors.ErrAlreadyApplied
	}
	logger.CtxInfo(ctx, "Applied for job", "job_id", jobID)
	return nil
}

func (s *jobService) ownedJob(ctx context.Context, jobID, userID string) (*models.Job, error) {
	job, err := s.store.Jobs().FindByID(ctx, jobID)
	if err != nil {
		return nil, jobLookupError(err)
	}
	if job.PostedByID != userID {
		return nil, apperrors.ErrNotJobOwner
	}
	return job, nil
}

// populatePosters подставляет postedBy как {_id, name, email}
func (s *jobService) populatePosters(ctx context.Context, jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.PostedByID)
	}
	users, err := s.store.Users().FindByIDs(ctx, uniqueExcept(ids, ""))
	if err != nil {
		return apperrors.DatabaseError(err)
	}

	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range jobs {
		if u, ok := byID[jobs[i].PostedByID]; ok {
			jobs[i].PostedBy = u.Contact()
		}
	}
	return nil
}

func applyJobUpdate(job *models.Job, req *dto.UpdateJobRequest) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&job.Title, req.Title)
	setString(&job.Company, req.Company)
	setString(&job.CompanyLogo, req.CompanyLogo)
	setString(&job.Location, req.Location)
	setString(&job.Area, req.Area)
	setString(&job.Description, req.Description)
	setString(&job.JobType, req.JobType)
	setString(&job.EmploymentType, req.EmploymentType)
	setString(&job.JobCategory, req.JobCategory)
	setString(&job.Department, req.Department)
	setString(&job.Shift, req.Shift)

	if req.Requirements != nil {
		job.Requirements = req.Requirements
	}
	if req.Skills != nil {
		job.Skills = req.Skills
	}
	if req.Specializations != nil {
		job.Specializations = req.Specializations
	}
	if req.Languages != nil {
		job.Languages = req.Languages
	}
	if req.Salary != nil {
		job.Salary = salaryFromInput(req.Salary)
	}
	if req.Experience != nil {
		job.Experience = models.Experience{Min: req.Experience.Min, Max: req.Experience.Max}
	}
	if req.Openings != nil {
		job.Openings = *req.Openings
	}
	if req.Status != nil {
		job.Status = models.JobStatus(*req.Status)
	}
	if req.HospitalDetails != nil {
		job.HospitalDetails = req.HospitalDetails
	}
	job.ApplyDefaults()
}

func salaryFromInput(in *dto.SalaryInput) models.Salary {
	return models.Salary{Min: in.Min, Max: in.Max, Currency: in.Currency, Period: in.Period}
}

// jobSlug - "staff-nurse-city-hospital-1a2b3c4d", суффикс из id делает slug уникальным
func jobSlug(job *models.Job) string {
	suffix := job.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return slug.Make(job.Title+" "+job.Company) + "-" + suffix
}

func jobLookupError(err error) error {
	if errors.Is(err, repositories.ErrJobNotFound) {
		return apperrors.ErrJobNotFound
	}
	return apperrors.DatabaseError(err)
}
