package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	TagContactEmail = "contact_email"
)

// Regex patterns
var (
	// local@domain.tld, no whitespace and no second @ on either side
	contactEmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ContactRules holds the validator tag enforced for each required contact
// field. Fields not listed here (projectType, urgency) are never validated.
var ContactRules = map[string]string{
	"name":    "min=2",
	"email":   TagContactEmail,
	"message": "min=10",
}

var ginOnce sync.Once

// New returns a validator with the custom contact rules registered and
// field names reported by their json tag.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation(TagContactEmail, ContactEmail)
	v.RegisterTagNameFunc(jsonTagName)
}

// RegisterGinValidators installs the custom rules on gin's binding engine.
func RegisterGinValidators() {
	ginOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterValidators(v)
		}
	})
}

// ContactEmail validates the loose local@domain.tld shape the contact form accepts.
func ContactEmail(fl validator.FieldLevel) bool {
	return IsContactEmail(fl.Field().String())
}

func IsContactEmail(s string) bool {
	return contactEmailRegex.MatchString(s)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
