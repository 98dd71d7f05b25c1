package handler

import (
	"errors"
	"sync"

	"github.com/ThMadHatter/CarCalculator/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request models.
// It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		registerErr = v.RegisterValidation("transmission", validateTransmission)
	})
	return registerErr
}

func validateTransmission(fl validator.FieldLevel) bool {
	_, ok := model.ParseTransmission(fl.Field().String())
	return ok
}
