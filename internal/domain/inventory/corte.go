package inventory

import (
	"github.com/jhoicas/Tesoreria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ClassifyDifference calcula diferencia = stockFisico − stockSistema y su estado
// (servicio de dominio, sin efectos sobre el stock).
func ClassifyDifference(stockSistema, stockFisico decimal.Decimal) (decimal.Decimal, entity.CorteState) {
	diff := stockFisico.Sub(stockSistema)
	switch diff.Sign() {
	case 0:
		return diff, entity.CorteCorrecto
	case -1:
		return diff, entity.CorteFaltante
	default:
		return diff, entity.CorteSobrante
	}
}
