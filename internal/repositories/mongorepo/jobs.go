package mongorepo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"jobnest_backend/internal/models"
	"jobnest_backend/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobRepository struct {
	coll *mongo.Collection
}

func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	job.EnsureID()
	job.Touch(time.Now())
	_, err := r.coll.InsertOne(ctx, job)
	return translate(err, nil)
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&job); err != nil {
		return nil, translate(err, repositories.ErrJobNotFound)
	}
	return &job, nil
}

func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	job.Touch(time.Now())
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": job.ID}, job)
	if err != nil {
		return translate(err, repositories.ErrJobNotFound)
	}
	if res.MatchedCount == 0 {
		return repositories.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) AddApplicant(ctx context.Context, jobID, userID string) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": jobID, "applicants": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"applicants": userID}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// не совпало: либо вакансии нет, либо уже откликался
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": jobID})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, repositories.ErrJobNotFound
	}
	return false, nil
}

func (r *JobRepository) Search(ctx context.Context, params repositories.JobSearch) ([]models.Job, int64, error) {
	filter := bson.M{"status": models.JobStatusActive}

	if term := strings.TrimSpace(params.Search); term != "" {
		filter["$text"] = bson.M{"$search": term}
	}
	if params.Location != "" {
		filter["location"] = containsRegex(params.Location)
	}
	if params.JobType != "" {
		filter["jobType"] = params.JobType
	}
	if params.Experience != nil {
		filter["experience.min"] = bson.M{"$lte": *params.Experience}
		filter["experience.max"] = bson.M{"$gte": *params.Experience}
	}
	if params.SalaryMin != nil {
		filter["salary.min"] = bson.M{"$gte": *params.SalaryMin}
	}
	if params.SalaryMax != nil {
		filter["salary.max"] = bson.M{"$lte": *params.SalaryMax}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((params.Page - 1) * params.Limit)).
		SetLimit(int64(params.Limit))
	jobs, err := r.find(ctx, filter, opts)
	return jobs, total, err
}

func (r *JobRepository) Filter(ctx context.Context, f repositories.JobFilter) ([]models.Job, error) {
	filter := bson.M{}

	if f.Search != "" {
		filter["title"] = containsRegex(f.Search)
	}
	if len(f.Skills) > 0 {
		filter["skills"] = bson.M{"$all": f.Skills}
	}
	if f.Specialization != "" {
		filter["specializations"] = f.Specialization
	}
	if f.Experience != nil {
		filter["experience.min"] = bson.M{"$lte": f.Experience.Max}
		filter["experience.max"] = bson.M{"$gte": f.Experience.Min}
	}
	if f.JobType != "" {
		filter["jobType"] = f.JobType
	}
	if len(f.Languages) > 0 {
		filter["languages"] = bson.M{"$all": f.Languages}
	}
	if f.Compensation != nil {
		filter["salary.min"] = bson.M{"$lte": f.Compensation.Max}
		filter["salary.max"] = bson.M{"$gte": f.Compensation.Min}
	}
	if f.Location != "" {
		filter["location"] = containsRegex(f.Location)
	}

	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *JobRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Job, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	jobs := []models.Job{}
	err = cursor.All(ctx, &jobs)
	return jobs, err
}

func containsRegex(term string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
}
