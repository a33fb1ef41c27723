// Package ledger: cüzdan, kasa ve stok bakiyeleri ile ağırlıklı ortalama
// maliyet (WAC) hesapları. Bütün bakiyeler her çağrıda ilgili tabloların
// tüm geçmişi üzerinden yeniden hesaplanır; hiçbir ara toplam saklanmaz.
// Bu sayede satır ekleme sırası sonucu değiştirmez ve eşzamanlı insert'ler
// bayat bir cache bırakamaz.
package ledger

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"seramik-backend/internal/models"
)

// Round: half-away-from-zero yuvarlama.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// WalletBalance: kişinin cüzdan bakiyesi, 2 hane.
// = tahsil edilmiş ödemeler toplamı − borçlar toplamı.
// Negatif sonuç kişinin borçlu olduğu anlamına gelir.
func WalletBalance(db *gorm.DB, personID uint) (float64, error) {
	var paid float64
	if err := db.Model(&models.Payment{}).
		Where("person_id = ? AND cleared = ?", personID, true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error; err != nil {
		return 0, err
	}

	var charged float64
	if err := db.Model(&models.Charge{}).
		Where("person_id = ?", personID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&charged).Error; err != nil {
		return 0, err
	}

	return Round(paid-charged, 2), nil
}

// CashOnHand: kasadaki net nakit, 2 hane.
// = açılış kasası + nakit tahsilat − kasadan harcama.
// openingCash konfigürasyondan gelir, ledger kaydı değildir.
func CashOnHand(db *gorm.DB, openingCash float64) (float64, error) {
	var cashIn float64
	if err := db.Model(&models.Payment{}).
		Where("method = ? AND cleared = ?", models.PaymentMethodCash, true).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&cashIn).Error; err != nil {
		return 0, err
	}

	var cashOut float64
	if err := db.Model(&models.Expense{}).
		Where("paid_from = ?", models.ExpenseSourceCash).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&cashOut).Error; err != nil {
		return 0, err
	}

	return Round(openingCash+cashIn-cashOut, 2), nil
}

// StockBalance: malzemenin anlık stok bakiyesi, 3 hane.
// = "in" hareketleri toplamı − "out" hareketleri toplamı.
// "adjust" satırları bakiyeye girmez; kayıt altında tutulur ama toplamı
// etkilemez (mevcut davranış bilinçli olarak korunuyor).
func StockBalance(db *gorm.DB, materialID uint) (float64, error) {
	var in float64
	if err := db.Model(&models.StockMovement{}).
		Where("material_id = ? AND direction = ?", materialID, models.MovementIn).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&in).Error; err != nil {
		return 0, err
	}

	var out float64
	if err := db.Model(&models.StockMovement{}).
		Where("material_id = ? AND direction = ?", materialID, models.MovementOut).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&out).Error; err != nil {
		return 0, err
	}

	return Round(in-out, 3), nil
}

// WeightedAverageCost: tüm "in" partileri üzerinden klasik WAC, 4 hane.
// Toplam giriş miktarı 0 veya altındaysa maliyet tanımsızdır, nil döner.
// UnitCost'u boş bırakılmış girişler 0 maliyetle hesaba katılır.
func WeightedAverageCost(db *gorm.DB, materialID uint) (*float64, error) {
	var row struct {
		TotalVal float64
		TotalQty float64
	}
	if err := db.Model(&models.StockMovement{}).
		Where("material_id = ? AND direction = ?", materialID, models.MovementIn).
		Select("COALESCE(SUM(qty * COALESCE(unit_cost, 0)), 0) AS total_val, COALESCE(SUM(qty), 0) AS total_qty").
		Scan(&row).Error; err != nil {
		return nil, err
	}

	if row.TotalQty <= 0 {
		return nil, nil
	}

	wac := Round(row.TotalVal/row.TotalQty, 4)
	return &wac, nil
}
