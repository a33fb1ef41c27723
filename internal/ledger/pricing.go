package ledger

import "seramik-backend/internal/models"

// PriceForEnrollment: kayıt için geçerli ücreti çözer.
// Öncelik: kayıt özel fiyatı > seans özel fiyatı > ders varsayılanı.
// İşaret kontrolü yapılmaz; negatif override olduğu gibi geçer.
func PriceForEnrollment(e *models.Enrollment, s *models.Session, c *models.Course) float64 {
	if e.PriceOverride != nil {
		return *e.PriceOverride
	}
	if s.PriceOverride != nil {
		return *s.PriceOverride
	}
	return c.DefaultPrice
}
