package validator

import (
	"log"
	"regexp"
	"slices"

	"jobnest_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	jobTypes      = models.JobTypes
	salaryPeriods = models.SalaryPeriods

	// uuid (наши записи) или 24-символьный hex ObjectID (данные, перенесенные из старой базы)
	entityIDPattern = regexp.MustCompile(`^([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|[0-9a-fA-F]{24})$`)
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("entity_id", validateEntityID)
	mustRegister("job_type", oneOfList(jobTypes))
	mustRegister("salary_period", oneOfList(salaryPeriods))
}

func validateEntityID(fl validator.FieldLevel) bool {
	return entityIDPattern.MatchString(fl.Field().String())
}

// oneOfList - пустое значение допустимо, его заменит значение по умолчанию
func oneOfList(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || slices.Contains(allowed, value)
	}
}
