package controller

import (
	"github.com/microsievert/dosimetria/internal/service/dosimetry"
)

type Controller struct {
	service *dosimetry.Service
}

func NewController(service *dosimetry.Service) *Controller {
	return &Controller{service: service}
}
