package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/smartsignal-api/internal/application/dto"
	"github.com/jhoicas/smartsignal-api/internal/domain/entity"
)

// RosterReport datos que necesita el generador del reporte de cuentas.
type RosterReport struct {
	GeneratedAt time.Time
	Stats       dto.StatsResponse
	Accounts    []*entity.Account // solo rol user, más recientes primero
}

// RosterPDFGenerator genera el PDF del listado de cuentas (Maroto en infraestructura).
type RosterPDFGenerator interface {
	GenerateRosterPDF(ctx context.Context, report RosterReport) ([]byte, error)
}
