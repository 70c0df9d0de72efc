package controllers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"yoplan/internal/diagnosis"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request
// models. It must run before the first request is bound.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("sessionid", func(fl validator.FieldLevel) bool {
			return diagnosis.ValidSessionID(fl.Field().String())
		})
	})
	return err
}
