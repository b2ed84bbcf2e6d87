package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/bibbank/kyc-risk-service/internal/domain/model"
	"github.com/bibbank/kyc-risk-service/internal/domain/valueobject"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("decimal", isDecimal)
	_ = v.RegisterValidation("customer_type", isCustomerType)
	_ = v.RegisterValidation("risk_tier", isRiskTier)
	_ = v.RegisterValidation("parameter_category", isParameterCategory)
	_ = v.RegisterValidation("document_status", isDocumentStatus)
	return v
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func isCustomerType(fl validator.FieldLevel) bool {
	_, err := valueobject.CustomerTypeFromString(fl.Field().String())
	return err == nil
}

func isRiskTier(fl validator.FieldLevel) bool {
	_, err := valueobject.RiskTierFromString(fl.Field().String())
	return err == nil
}

func isParameterCategory(fl validator.FieldLevel) bool {
	_, err := valueobject.ParameterCategoryFromString(fl.Field().String())
	return err == nil
}

func isDocumentStatus(fl validator.FieldLevel) bool {
	_, err := valueobject.DocumentStatusFromString(fl.Field().String())
	return err == nil
}

// validateStruct runs the struct tags and reports the first failure as a
// *model.ValidationError named after the JSON field.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &model.ValidationError{Field: fieldPath(fe), Reason: reason(fe)}
	}
	return &model.ValidationError{Reason: err.Error()}
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "decimal":
		return "must be a decimal number"
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " element(s)"
	default:
		return "must be a valid " + strings.ReplaceAll(fe.Tag(), "_", " ")
	}
}
