package models

import (
	"encoding/json"
	"slices"
)

type JobStatus string

const (
	JobStatusActive JobStatus = "Active"
	JobStatusClosed JobStatus = "Closed"
	JobStatusDraft  JobStatus = "Draft"
)

var (
	JobTypes        = []string{"Full-time", "Part-time", "Contract", "Internship", "Remote"}
	EmploymentTypes = []string{"Permanent", "Temporary", "Contract"}
	SalaryPeriods   = []string{"hour", "day", "month", "year"}
)

const DefaultCompanyLogo = "default-company.png"

type Salary struct {
	Min      float64 `bson:"min" json:"min"`
	Max      float64 `bson:"max" json:"max"`
	Currency string  `gorm:"size:8" bson:"currency" json:"currency"`
	Period   string  `gorm:"size:8" bson:"period" json:"period"`
}

type Experience struct {
	Min int `bson:"min" json:"min"`
	Max int `bson:"max" json:"max"`
}

type Address struct {
	Type         string    `bson:"type,omitempty" json:"type,omitempty"`
	Coordinates  []float64 `bson:"coordinates" json:"coordinates"`
	AddressLine1 string    `bson:"addressLine1,omitempty" json:"addressLine1,omitempty"`
	AddressLine2 string    `bson:"addressLine2,omitempty" json:"addressLine2,omitempty"`
	City         string    `bson:"city,omitempty" json:"city,omitempty"`
	State        string    `bson:"state,omitempty" json:"state,omitempty"`
	Country      string    `bson:"country,omitempty" json:"country,omitempty"`
	PostalCode   string    `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	IsPrimary    bool      `bson:"isPrimary,omitempty" json:"isPrimary,omitempty"`
}

type HospitalDetails struct {
	Website          string    `bson:"website,omitempty" json:"website,omitempty"`
	OrganizationSize string    `bson:"organizationSize,omitempty" json:"organizationSize,omitempty"`
	Type             string    `bson:"type,omitempty" json:"type,omitempty"`
	Founded          int       `bson:"founded,omitempty" json:"founded,omitempty"`
	Industry         string    `bson:"industry,omitempty" json:"industry,omitempty"`
	Addresses        []Address `bson:"addresses,omitempty" json:"addresses,omitempty"`
}

type Job struct {
	BaseModel       `bson:",inline"`
	Slug            string           `gorm:"size:255;index" bson:"slug" json:"slug"`
	Title           string           `gorm:"size:255;not null" bson:"title" json:"title"`
	Company         string           `gorm:"size:255;not null" bson:"company" json:"company"`
	CompanyLogo     string           `bson:"companyLogo" json:"companyLogo"`
	Location        string           `gorm:"size:255;not null;index" bson:"location" json:"location"`
	Area            string           `gorm:"size:255;not null" bson:"area" json:"area"`
	Salary          Salary           `gorm:"embedded;embeddedPrefix:salary_" bson:"salary" json:"salary"`
	Description     string           `gorm:"type:text;not null" bson:"description" json:"description"`
	Requirements    []string         `gorm:"type:text;serializer:json" bson:"requirements" json:"requirements"`
	Skills          []string         `gorm:"type:text;serializer:json" bson:"skills" json:"skills"`
	Specializations []string         `gorm:"type:text;serializer:json" bson:"specializations" json:"specializations"`
	JobType         string           `gorm:"size:32;index" bson:"jobType" json:"jobType"`
	Experience      Experience       `gorm:"embedded;embeddedPrefix:experience_" bson:"experience" json:"experience"`
	EmploymentType  string           `gorm:"size:32" bson:"employmentType" json:"employmentType"`
	JobCategory     string           `gorm:"size:128;not null" bson:"jobCategory" json:"jobCategory"`
	Department      string           `gorm:"size:128;not null" bson:"department" json:"department"`
	Shift           string           `gorm:"size:64;not null" bson:"shift" json:"shift"`
	Openings        int              `bson:"openings" json:"openings"`
	Languages       []string         `gorm:"type:text;serializer:json" bson:"languages" json:"languages"`
	PostedByID      string           `gorm:"column:posted_by;type:varchar(36);not null;index" bson:"postedBy" json:"-"`
	Status          JobStatus        `gorm:"size:16;not null;default:Active;index" bson:"status" json:"status"`
	Applicants      []string         `gorm:"type:text;serializer:json" bson:"applicants" json:"applicants"`
	HospitalDetails *HospitalDetails `gorm:"type:text;serializer:json" bson:"hospitalDetails,omitempty" json:"hospitalDetails,omitempty"`

	PostedBy *UserContact `gorm:"-" bson:"-" json:"-"`
}

// ApplyDefaults проставляет значения по умолчанию для незаполненных полей
func (j *Job) ApplyDefaults() {
	if j.CompanyLogo == "" {
		j.CompanyLogo = DefaultCompanyLogo
	}
	if j.Salary.Currency == "" {
		j.Salary.Currency = "INR"
	}
	if j.Salary.Period == "" {
		j.Salary.Period = "year"
	}
	if j.JobType == "" {
		j.JobType = "Full-time"
	}
	if j.Experience.Min == 0 && j.Experience.Max == 0 {
		j.Experience.Max = 5
	}
	if j.EmploymentType == "" {
		j.EmploymentType = "Permanent"
	}
	if j.Openings == 0 {
		j.Openings = 1
	}
	if len(j.Languages) == 0 {
		j.Languages = []string{"English"}
	}
	if j.Status == "" {
		j.Status = JobStatusActive
	}
	if j.Skills == nil {
		j.Skills = []string{}
	}
	if j.Specializations == nil {
		j.Specializations = []string{}
	}
	if j.Applicants == nil {
		j.Applicants = []string{}
	}
}

func (j *Job) HasApplicant(userID string) bool {
	return slices.Contains(j.Applicants, userID)
}

func (j Job) MarshalJSON() ([]byte, error) {
	type plain Job
	var postedBy any = j.PostedByID
	if j.PostedBy != nil {
		postedBy = j.PostedBy
	}
	return json.Marshal(struct {
		plain
		PostedBy any `json:"postedBy"`
	}{plain(j), postedBy})
}
