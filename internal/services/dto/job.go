package dto

import "jobnest_backend/internal/models"

type SalaryInput struct {
	Min      float64 `json:"min" validate:"min=0"`
	Max      float64 `json:"max" validate:"gtefield=Min"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
	Period   string  `json:"period" validate:"salary_period"`
}

type ExperienceInput struct {
	Min int `json:"min" validate:"min=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// CreateJobRequest - POST /jobs
type CreateJobRequest struct {
	Title           string                  `json:"title" validate:"required,max=255"`
	Company         string                  `json:"company" validate:"required,max=255"`
	CompanyLogo     string                  `json:"companyLogo"`
	Location        string                  `json:"location" validate:"required,max=255"`
	Area            string                  `json:"area" validate:"required,max=255"`
	Salary          *SalaryInput            `json:"salary"`
	Description     string                  `json:"description" validate:"required"`
	Requirements    []string                `json:"requirements" validate:"required,min=1"`
	Skills          []string                `json:"skills"`
	Specializations []string                `json:"specializations"`
	JobType         string                  `json:"jobType" validate:"job_type"`
	Experience      *ExperienceInput        `json:"experience"`
	EmploymentType  string                  `json:"employmentType" validate:"omitempty,oneof=Permanent Temporary Contract"`
	JobCategory     string                  `json:"jobCategory" validate:"required"`
	Department      string                  `json:"department" validate:"required"`
	Shift           string                  `json:"shift" validate:"required"`
	Openings        int                     `json:"openings" validate:"min=0"`
	Languages       []string                `json:"languages"`
	HospitalDetails *models.HospitalDetails `json:"hospitalDetails"`
}

// UpdateJobRequest - PUT /jobs/:id, меняются только переданные поля
type UpdateJobRequest struct {
	Title           *string                 `json:"title" validate:"omitempty,min=1,max=255"`
	Company         *string                 `json:"company" validate:"omitempty,min=1,max=255"`
	CompanyLogo     *string                 `json:"companyLogo"`
	Location        *string                 `json:"location" validate:"omitempty,min=1,max=255"`
	Area            *string                 `json:"area" validate:"omitempty,min=1"`
	Salary          *SalaryInput            `json:"salary"`
	Description     *string                 `json:"description" validate:"omitempty,min=1"`
	Requirements    []string                `json:"requirements"`
	Skills          []string                `json:"skills"`
	Specializations []string                `json:"specializations"`
	JobType         *string                 `json:"jobType" validate:"omitempty,job_type"`
	Experience      *ExperienceInput        `json:"experience"`
	EmploymentType  *string                 `json:"employmentType" validate:"omitempty,oneof=Permanent Temporary Contract"`
	JobCategory     *string                 `json:"jobCategory"`
	Department      *string                 `json:"department"`
	Shift           *string                 `json:"shift"`
	Openings        *int                    `json:"openings" validate:"omitempty,min=1"`
	Languages       []string                `json:"languages"`
	Status          *string                 `json:"status" validate:"omitempty,oneof=Active Closed Draft"`
	HospitalDetails *models.HospitalDetails `json:"hospitalDetails"`
}

// JobSearchQuery - параметры GET /jobs
type JobSearchQuery struct {
	Search     string   `form:"search" json:"search"`
	Location   string   `form:"location" json:"location"`
	JobType    string   `form:"jobType" json:"jobType" validate:"omitempty,job_type"`
	Experience *int     `form:"experience" json:"experience" validate:"omitempty,min=0"`
	SalaryMin  *float64 `form:"salaryMin" json:"salaryMin" validate:"omitempty,min=0"`
	SalaryMax  *float64 `form:"salaryMax" json:"salaryMax" validate:"omitempty,min=0"`
	Page       int      `form:"page" json:"page" validate:"min=0"`
	Limit      int      `form:"limit" json:"limit" validate:"min=0,max=100"`
}

type JobListResponse struct {
	Jobs        []models.Job `json:"jobs"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Total       int64        `json:"total"`
}

type IntRange struct {
	Min int `json:"min" validate:"min=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

type FloatRange struct {
	Min float64 `json:"min" validate:"min=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// JobFilterRequest - POST /jobs/filter
type JobFilterRequest struct {
	Search         string      `json:"search"`
	Skills         []string    `json:"skills"`
	Specialization string      `json:"specialization"`
	Experience     *IntRange   `json:"experience"`
	JobType        string      `json:"jobType" validate:"omitempty,job_type"`
	Languages      []string    `json:"languages"`
	Compensation   *FloatRange `json:"compensation"`
	Location       string      `json:"location"`
}

type ApplyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
