package repositories

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"jobnest_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobSearch - параметры публичного списка вакансий (GET /jobs)
type JobSearch struct {
	Search     string
	Location   string
	JobType    string
	Experience *int
	SalaryMin  *float64
	SalaryMax  *float64
	Page       int
	Limit      int
}

type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// JobFilter - расширенный фильтр (POST /jobs/filter): диапазоны пересекаются, списки должны содержаться целиком
type JobFilter struct {
	Search         string
	Skills         []string
	Specialization string
	Experience     *IntRange
	JobType        string
	Languages      []string
	Compensation   *FloatRange
	Location       string
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	FindByID(ctx context.Context, id string) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id string) error
	// AddApplicant возвращает false, если пользователь уже откликался
	AddApplicant(ctx context.Context, jobID, userID string) (bool, error)
	// Search - только активные, от новых к старым, с общим количеством
	Search(ctx context.Context, params JobSearch) ([]models.Job, int64, error)
	Filter(ctx context.Context, filter JobFilter) ([]models.Job, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *models.Job) error {
	return translate(r.db.WithContext(ctx).Create(job).Error, nil)
}

func (r *JobRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, translate(err, ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(ctx context.Context, job *models.Job) error {
	res := r.db.WithContext(ctx).Save(job)
	if res.Error != nil {
		return translate(res.Error, ErrJobNotFound)
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) AddApplicant(ctx context.Context, jobID, userID string) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&job, "id = ?", jobID).Error; err != nil {
			return translate(err, ErrJobNotFound)
		}
		if job.HasApplicant(userID) {
			return nil
		}
		job.Applicants = append(job.Applicants, userID)
		if err := tx.Model(&job).Select("Applicants").Updates(&job).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	return added, err
}

func (r *JobRepositoryImpl) Search(ctx context.Context, params JobSearch) ([]models.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{}).Where("status = ?", models.JobStatusActive)

	if term := strings.TrimSpace(params.Search); term != "" {
		pattern := containsPattern(term)
		query = query.Where(
			"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(company) LIKE ? ESCAPE '!' OR LOWER(skills) LIKE ? ESCAPE '!' OR LOWER(specializations) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	if params.Location != "" {
		query = query.Where("LOWER(location) LIKE ? ESCAPE '!'", containsPattern(params.Location))
	}
	if params.JobType != "" {
		query = query.Where("job_type = ?", params.JobType)
	}
	if params.Experience != nil {
		query = query.Where("experience_min <= ? AND experience_max >= ?", *params.Experience, *params.Experience)
	}
	if params.SalaryMin != nil || params.SalaryMax != nil {
		lo, hi := 0.0, math.MaxFloat64
		if params.SalaryMin != nil {
			lo = *params.SalaryMin
		}
		if params.SalaryMax != nil {
			hi = *params.SalaryMax
		}
		query = query.Where("salary_min >= ? AND salary_max <= ?", lo, hi)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	jobs := []models.Job{}
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) Filter(ctx context.Context, f JobFilter) ([]models.Job, error) {
	query := r.db.WithContext(ctx).Model(&models.Job{})

	if f.Search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(f.Search))
	}
	for _, skill := range f.Skills {
		query = query.Where("skills LIKE ? ESCAPE '!'", elementPattern(skill))
	}
	if f.Specialization != "" {
		query = query.Where("specializations LIKE ? ESCAPE '!'", elementPattern(f.Specialization))
	}
	if f.Experience != nil {
		query = query.Where("experience_min <= ? AND experience_max >= ?", f.Experience.Max, f.Experience.Min)
	}
	if f.JobType != "" {
		query = query.Where("job_type = ?", f.JobType)
	}
	for _, lang := range f.Languages {
		query = query.Where("languages LIKE ? ESCAPE '!'", elementPattern(lang))
	}
	if f.Compensation != nil {
		query = query.Where("salary_min <= ? AND salary_max >= ?", f.Compensation.Max, f.Compensation.Min)
	}
	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE ? ESCAPE '!'", containsPattern(f.Location))
	}

	jobs := []models.Job{}
	err := query.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern - регистронезависимая подстрока
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// elementPattern ищет точный элемент в массиве, сохраненном через serializer:json
func elementPattern(value string) string {
	encoded, _ := json.Marshal(value)
	return "%" + likeEscaper.Replace(string(encoded)) + "%"
}
