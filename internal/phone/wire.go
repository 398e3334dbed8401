package phone

import (
	"database/sql"

	"go.uber.org/zap"

	"phonestore/internal/config"
	"phonestore/internal/infrastructure/mysql"
	"phonestore/internal/phone/controller"
	"phonestore/internal/phone/repository"
	"phonestore/internal/phone/usecase"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.PhoneController {
	repo := repository.NewMySQLPhoneRepository(db)
	uc := usecase.NewPhoneUseCase(repo, mysql.NewTransactionManager(db), logger, cfg.Order.MaxRetryAttempts)
	return controller.NewPhoneController(uc, logger)
}
