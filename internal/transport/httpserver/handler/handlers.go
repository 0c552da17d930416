package handler

import (
	"farmbooking-go/internal/auth"
	calendardomain "farmbooking-go/internal/domain/calendar"
	identitydomain "farmbooking-go/internal/domain/identity"
	mediadomain "farmbooking-go/internal/domain/media"
	propertydomain "farmbooking-go/internal/domain/property"
	"farmbooking-go/pkg/logger"
)

type Handlers struct {
	Identity   *identitydomain.Service
	Properties *propertydomain.Service
	Calendar   *calendardomain.Service
	Media      *mediadomain.Service

	tokens *auth.Manager
	log    logger.Logger
}

func New(
	identity *identitydomain.Service,
	properties *propertydomain.Service,
	calendar *calendardomain.Service,
	media *mediadomain.Service,
	tokens *auth.Manager,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Identity:   identity,
		Properties: properties,
		Calendar:   calendar,
		Media:      media,
		tokens:     tokens,
		log:        log,
	}
}
