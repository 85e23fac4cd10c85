package v1

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/doctor"
)

var registerOnce sync.Once

// registerValidations adds the clinic enum tags to gin's shared validator. Safe to call from
// every router constructor.
func registerValidations() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("specialty", func(fl validator.FieldLevel) bool {
			return doctor.Specialty(fl.Field().String()).IsValid()
		}); err != nil {
			return
		}
		err = v.RegisterValidation("cancel_reason", func(fl validator.FieldLevel) bool {
			return consultation.CancellationReason(fl.Field().String()).IsValid()
		})
	})
	return err
}
