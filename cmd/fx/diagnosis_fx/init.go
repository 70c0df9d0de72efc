package diagnosis_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"yoplan/internal/repositories"
	"yoplan/internal/services"
)

var Module = fx.Provide(
	provideCatalogRepo,
	provideResultRepo,
	provideDiagnosisService)

func provideCatalogRepo(db *gorm.DB) repositories.DiagnosisCatalogRepository {
	return repositories.NewDiagnosisCatalogRepository(db)
}

func provideResultRepo(db *gorm.DB) repositories.DiagnosisResultRepository {
	return repositories.NewDiagnosisResultRepository(db)
}

func provideDiagnosisService(
	catalog repositories.DiagnosisCatalogRepository,
	results repositories.DiagnosisResultRepository,
	planRepo repositories.IPlanRepository,
	ages services.UserAgeLookup,
	log *zap.Logger,
) services.DiagnosisServiceInterface {
	return services.NewDiagnosisService(catalog, results, planRepo, ages, log.Named("diagnosis"))
}
