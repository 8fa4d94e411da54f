package handler

import "gradebook/internal/service"

// Handler aggregates every HTTP handler
type Handler struct {
	Grade      *GradeHandler
	Enrollment *EnrollmentHandler
	Catalog    *CatalogHandler
	Guard      *GuardHandler
	Report     *ReportHandler
	Export     *ExportHandler
}

// NewHandler creates the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Grade:      NewGradeHandler(svc.Grade),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Guard:      NewGuardHandler(svc.Guard),
		Report:     NewReportHandler(svc.Report),
		Export:     NewExportHandler(svc.Export),
	}
}
